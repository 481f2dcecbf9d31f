// Package importer converte arquivos de pedidos em registros de domínio
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/vfg2006/rfm-segmentation-api/internal/domain"
	"github.com/vfg2006/rfm-segmentation-api/pkg/utils"
)

const (
	ColumnUserID        = "user_id"
	ColumnOrderID       = "order_id"
	ColumnOrderDate     = "order_date"
	ColumnProductName   = "product_name"
	ColumnOrderValue    = "order_value"
	ColumnDiscountGiven = "discount_given"
)

// RequiredColumns são as colunas obrigatórias do CSV de pedidos
var RequiredColumns = []string{
	ColumnUserID,
	ColumnOrderID,
	ColumnOrderDate,
	ColumnProductName,
	ColumnOrderValue,
	ColumnDiscountGiven,
}

var (
	ErrEmptyFile      = errors.New("csv file is empty")
	ErrMissingColumns = errors.New("csv must contain required columns")
	ErrInvalidRow     = errors.New("invalid csv row")
	ErrTooManyOrders  = errors.New("too many orders")
)

// RowError identifica a linha do arquivo que falhou na validação
type RowError struct {
	Line   int
	Column string
	Err    error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d, column %s: %v", e.Line, e.Column, e.Err)
}

func (e *RowError) Unwrap() []error {
	return []error{ErrInvalidRow, e.Err}
}

// CSVReader lê pedidos em CSV com cabeçalho
type CSVReader struct {
	// MaxOrders limita a quantidade de linhas aceitas (0 = sem limite)
	MaxOrders int
}

func NewCSVReader(maxOrders int) *CSVReader {
	return &CSVReader{MaxOrders: maxOrders}
}

// ReadOrders valida o cabeçalho e converte cada linha em OrderRecord
func (c *CSVReader) ReadOrders(r io.Reader) ([]domain.OrderRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, errors.Wrap(err, "erro ao ler cabeçalho do csv")
	}

	index, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	orders := make([]domain.OrderRecord, 0)
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, errors.Wrapf(err, "erro ao ler linha %d do csv", line)
		}
		if isBlank(record) {
			continue
		}

		if c.MaxOrders > 0 && len(orders) >= c.MaxOrders {
			return nil, errors.Wrapf(ErrTooManyOrders, "limite de %d pedidos excedido", c.MaxOrders)
		}

		order, err := parseRecord(record, index, line)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}

	return orders, nil
}

func columnIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, column := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(column, "\ufeff")))
		index[name] = i
	}

	missing := make([]string, 0)
	for _, column := range RequiredColumns {
		if _, exists := index[column]; !exists {
			missing = append(missing, column)
		}
	}
	if len(missing) > 0 {
		return nil, errors.Wrapf(ErrMissingColumns, "missing: %s", strings.Join(missing, ", "))
	}

	return index, nil
}

func parseRecord(record []string, index map[string]int, line int) (domain.OrderRecord, error) {
	field := func(column string) string {
		i := index[column]
		if i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	order := domain.OrderRecord{
		CustomerID:  field(ColumnUserID),
		OrderID:     field(ColumnOrderID),
		ProductName: field(ColumnProductName),
	}

	if order.CustomerID == "" {
		return order, &RowError{Line: line, Column: ColumnUserID, Err: errors.New("empty customer id")}
	}

	orderDate, err := utils.ParseTimestamp(field(ColumnOrderDate))
	if err != nil {
		return order, &RowError{Line: line, Column: ColumnOrderDate, Err: err}
	}
	order.OrderDate = orderDate

	value, err := utils.ParseAmount(field(ColumnOrderValue))
	if err != nil {
		return order, &RowError{Line: line, Column: ColumnOrderValue, Err: err}
	}
	if value < 0 {
		return order, &RowError{Line: line, Column: ColumnOrderValue, Err: fmt.Errorf("negative order value %.2f", value)}
	}
	order.OrderValue = value

	discount, err := utils.ParseAmount(field(ColumnDiscountGiven))
	if err != nil {
		return order, &RowError{Line: line, Column: ColumnDiscountGiven, Err: err}
	}
	order.DiscountGiven = discount

	return order, nil
}

func isBlank(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
