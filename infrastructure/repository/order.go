// Package repository contém as implementações dos repositórios para acesso aos dados
package repository

import (
	"context"
	"database/sql"
	"regexp"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/vfg2006/rfm-segmentation-api/internal/domain"
)

var tableNamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// OrderRepository lê pedidos da base transacional. Apenas leitura: o resultado da análise não é persistido.
type OrderRepository interface {
	ListOrders(ctx context.Context, filters *domain.OrderFilters) ([]domain.OrderRecord, error)
}

type rowsQueryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

type orderRepository struct {
	conn        rowsQueryer
	table       string
	placeholder squirrel.PlaceholderFormat
}

func NewOrderRepository(conn rowsQueryer, table string, placeholder squirrel.PlaceholderFormat) (OrderRepository, error) {
	if !tableNamePattern.MatchString(table) {
		return nil, errors.Errorf("nome de tabela inválido: %q", table)
	}

	return &orderRepository{
		conn:        conn,
		table:       table,
		placeholder: placeholder,
	}, nil
}

func (r *orderRepository) ListOrders(ctx context.Context, filters *domain.OrderFilters) ([]domain.OrderRecord, error) {
	sqlQuery, args, err := r.buildListOrdersQuery(filters)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao construir a query")
	}

	rows, err := r.conn.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao executar a query")
	}
	defer rows.Close()

	orders := make([]domain.OrderRecord, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, errors.Wrap(err, "erro ao escanear pedido")
		}
		orders = append(orders, *order)
	}

	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, "erro durante a iteração de linhas")
	}

	return orders, nil
}

func (r *orderRepository) buildListOrdersQuery(filters *domain.OrderFilters) (string, []any, error) {
	queryBuilder := squirrel.
		Select(
			"o.user_id",
			"o.order_id",
			"o.order_date",
			"o.product_name",
			"o.order_value",
			"o.discount_given",
		).
		From(r.table + " o").
		OrderBy("o.order_date ASC", "o.order_id ASC").
		PlaceholderFormat(r.placeholder)

	if filters != nil && filters.StartDate != nil {
		queryBuilder = queryBuilder.Where(squirrel.GtOrEq{"o.order_date": filters.StartDate.Format(time.DateOnly)})
	}
	if filters != nil && filters.EndDate != nil {
		// Fim inclusivo: tudo antes do dia seguinte
		queryBuilder = queryBuilder.Where(squirrel.Lt{"o.order_date": filters.EndDate.AddDate(0, 0, 1).Format(time.DateOnly)})
	}

	return queryBuilder.ToSql()
}

func scanOrder(rows *sql.Rows) (*domain.OrderRecord, error) {
	order := &domain.OrderRecord{}
	var productName sql.NullString
	var discount sql.NullFloat64

	err := rows.Scan(
		&order.CustomerID,
		&order.OrderID,
		&order.OrderDate,
		&productName,
		&order.OrderValue,
		&discount,
	)
	if err != nil {
		return nil, err
	}

	order.ProductName = productName.String
	order.DiscountGiven = discount.Float64

	return order, nil
}
