package segmenting

import (
	"fmt"
	"sort"
	"time"

	"github.com/vfg2006/rfm-segmentation-api/internal/domain"
)

const hoursPerDay = 24

type customerAccumulator struct {
	lastOrder     time.Time
	frequency     int
	monetary      float64
	totalDiscount float64
}

// AggregateMetrics reduz os pedidos a uma linha por cliente.
// O resultado é ordenado por CustomerID, ordem estável usada pelas etapas seguintes.
func AggregateMetrics(orders []domain.OrderRecord, snapshot time.Time) ([]domain.CustomerMetrics, error) {
	accumulators := make(map[string]*customerAccumulator)

	for _, order := range orders {
		acc, exists := accumulators[order.CustomerID]
		if !exists {
			acc = &customerAccumulator{lastOrder: order.OrderDate}
			accumulators[order.CustomerID] = acc
		}

		if order.OrderDate.After(acc.lastOrder) {
			acc.lastOrder = order.OrderDate
		}
		acc.frequency++
		acc.monetary += order.OrderValue
		acc.totalDiscount += order.DiscountGiven
	}

	customerIDs := make([]string, 0, len(accumulators))
	for customerID := range accumulators {
		customerIDs = append(customerIDs, customerID)
	}
	sort.Strings(customerIDs)

	snapshotDay := calendarDay(snapshot)

	metrics := make([]domain.CustomerMetrics, 0, len(customerIDs))
	for _, customerID := range customerIDs {
		acc := accumulators[customerID]

		recency := daysBetween(calendarDay(acc.lastOrder), snapshotDay)
		if recency < 0 {
			return nil, newInvalidSnapshotError(customerID, fmt.Sprintf(
				"snapshot %s is before last order %s of customer %s",
				snapshot.Format(time.DateOnly),
				acc.lastOrder.Format(time.DateOnly),
				customerID,
			))
		}

		metrics = append(metrics, domain.CustomerMetrics{
			CustomerID:    customerID,
			Recency:       recency,
			Frequency:     acc.frequency,
			Monetary:      acc.monetary,
			TotalDiscount: acc.totalDiscount,
			LastOrderDate: acc.lastOrder,
		})
	}

	return metrics, nil
}

// calendarDay descarta o horário mantendo a data civil informada, sem conversão de fuso
func calendarDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours()) / hoursPerDay
}
