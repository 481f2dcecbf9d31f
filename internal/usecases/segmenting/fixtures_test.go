package segmenting

import (
	"fmt"
	"time"

	"github.com/vfg2006/rfm-segmentation-api/internal/domain"
)

var testSnapshot = time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

// scenarioOrders gera 10 clientes com recência 1..10, três pedidos cada e
// receita [100,100,200,200,...,500,500]
func scenarioOrders() []domain.OrderRecord {
	monetary := []float64{100, 100, 200, 200, 300, 300, 400, 400, 500, 500}

	orders := make([]domain.OrderRecord, 0, 30)
	for i, value := range monetary {
		customerID := fmt.Sprintf("C%02d", i+1)
		last := testSnapshot.AddDate(0, 0, -(i + 1))
		orders = append(orders,
			domain.OrderRecord{CustomerID: customerID, OrderID: customerID + "-1", OrderDate: last, OrderValue: value},
			domain.OrderRecord{CustomerID: customerID, OrderID: customerID + "-2", OrderDate: last.AddDate(0, 0, -20)},
			domain.OrderRecord{CustomerID: customerID, OrderID: customerID + "-3", OrderDate: last.AddDate(0, 0, -40)},
		)
	}
	return orders
}

func ordersFor(customers int, value float64) []domain.OrderRecord {
	orders := make([]domain.OrderRecord, 0, customers)
	for i := 0; i < customers; i++ {
		orders = append(orders, domain.OrderRecord{
			CustomerID: fmt.Sprintf("C%02d", i+1),
			OrderID:    fmt.Sprintf("O%02d", i+1),
			OrderDate:  testSnapshot.AddDate(0, 0, -(i + 1)),
			OrderValue: value,
		})
	}
	return orders
}
