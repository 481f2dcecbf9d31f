package segmenting

import (
	"time"

	"github.com/vfg2006/rfm-segmentation-api/internal/domain"
	"github.com/vfg2006/rfm-segmentation-api/pkg/utils"
)

// MonthlyRevenueTrend soma OrderValue por mês civil. Meses sem pedidos entre o
// primeiro e o último mês aparecem com receita zero.
func MonthlyRevenueTrend(orders []domain.OrderRecord) []domain.MonthlyRevenue {
	if len(orders) == 0 {
		return []domain.MonthlyRevenue{}
	}

	first := firstDayOfMonth(orders[0].OrderDate)
	last := first
	byMonth := make(map[time.Time]*domain.MonthlyRevenue)

	for _, order := range orders {
		month := firstDayOfMonth(order.OrderDate)
		if month.Before(first) {
			first = month
		}
		if month.After(last) {
			last = month
		}

		entry, exists := byMonth[month]
		if !exists {
			entry = &domain.MonthlyRevenue{}
			byMonth[month] = entry
		}
		entry.Revenue += order.OrderValue
		entry.Orders++
	}

	trend := make([]domain.MonthlyRevenue, 0)
	for month := first; !month.After(last); month = month.AddDate(0, 1, 0) {
		item := domain.MonthlyRevenue{
			Month: month.Format("2006-01"),
			Start: month,
		}
		if entry, exists := byMonth[month]; exists {
			item.Revenue = utils.RoundWithTwoDecimalPlace(entry.Revenue)
			item.Orders = entry.Orders
		}
		trend = append(trend, item)
	}

	return trend
}

func firstDayOfMonth(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, time.UTC)
}
