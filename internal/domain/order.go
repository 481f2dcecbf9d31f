package domain

import "time"

// OrderRecord representa uma linha do arquivo de pedidos (um evento de compra).
// Pedidos com o mesmo OrderID são tratados como eventos distintos.
type OrderRecord struct {
	CustomerID    string    `json:"user_id"`
	OrderID       string    `json:"order_id"`
	OrderDate     time.Time `json:"order_date"`
	ProductName   string    `json:"product_name"`
	OrderValue    float64   `json:"order_value"`
	DiscountGiven float64   `json:"discount_given"`
}

// OrderFilters delimita a janela de pedidos lida da base de dados
type OrderFilters struct {
	StartDate *time.Time
	EndDate   *time.Time
}

// MonthlyRevenue é a receita bruta somada por mês civil
type MonthlyRevenue struct {
	Month   string    `json:"month"` // Formato yyyy-mm
	Start   time.Time `json:"start"`
	Revenue float64   `json:"revenue"`
	Orders  int       `json:"orders"`
}
