// Package migration cria a tabela de pedidos e faz a carga inicial a partir de arquivos
package migration

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/vfg2006/rfm-segmentation-api/infrastructure/database"
	"github.com/vfg2006/rfm-segmentation-api/infrastructure/database/postgres"
	"github.com/vfg2006/rfm-segmentation-api/internal/domain"
	"github.com/vfg2006/rfm-segmentation-api/pkg/log"
	"github.com/vfg2006/rfm-segmentation-api/pkg/utils"
)

const (
	DefaultBatchSize = 500
	idLength         = 12
)

var (
	tableNamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

	orderColumns = []string{
		"id",
		"user_id",
		"order_id",
		"order_date",
		"product_name",
		"order_value",
		"discount_given",
	}
)

// LoadResult resume a carga executada
type LoadResult struct {
	Inserted int
	Batches  int
	Elapsed  time.Duration
}

// OrderLoader grava pedidos brutos na tabela lida pelo repositório de pedidos
type OrderLoader struct {
	conn      *database.Connection
	table     string
	batchSize int
	newID     func() (string, error)
}

func NewOrderLoader(conn *database.Connection, table string, batchSize int) (*OrderLoader, error) {
	if !tableNamePattern.MatchString(table) {
		return nil, errors.Errorf("nome de tabela inválido: %q", table)
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	return &OrderLoader{
		conn:      conn,
		table:     table,
		batchSize: batchSize,
		newID:     generateID,
	}, nil
}

func generateID() (string, error) {
	return utils.GenerateID(idLength)
}

// EnsureSchema cria a tabela e o índice por data quando ainda não existem
func (l *OrderLoader) EnsureSchema(ctx context.Context) error {
	for _, stmt := range createTableStatements(l.conn.Driver, l.table) {
		if _, err := l.conn.ExecContext(ctx, stmt); err != nil {
			return errors.Wrapf(err, "erro ao criar tabela %s", l.table)
		}
	}

	log.ForContext(ctx).WithField("table", l.table).Info("Tabela de pedidos verificada")
	return nil
}

// LoadOrders insere os pedidos em lotes dentro de uma única transação.
// onBatch recebe a quantidade de pedidos gravados em cada lote.
func (l *OrderLoader) LoadOrders(ctx context.Context, orders []domain.OrderRecord, onBatch func(int)) (LoadResult, error) {
	result := LoadResult{}
	startTime := time.Now()
	logger := log.ForContext(ctx).WithFields(log.Fields{
		"table":  l.table,
		"orders": len(orders),
	})
	logger.Info("Iniciando carga de pedidos")

	tx, err := l.conn.BeginTx(ctx, nil)
	if err != nil {
		return result, errors.Wrap(err, "erro ao iniciar transação")
	}

	for i, batch := range splitBatches(orders, l.batchSize) {
		query, args, err := l.buildInsert(batch)
		if err != nil {
			_ = tx.Rollback()
			return result, errors.Wrapf(err, "erro ao montar lote %d", i+1)
		}

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			_ = tx.Rollback()
			return result, errors.Wrapf(err, "erro ao inserir lote %d", i+1)
		}

		result.Inserted += len(batch)
		result.Batches++
		if onBatch != nil {
			onBatch(len(batch))
		}
		logger.Debugf("Progresso: %d/%d pedidos gravados", result.Inserted, len(orders))
	}

	if err := tx.Commit(); err != nil {
		_ = tx.Rollback()
		return LoadResult{}, errors.Wrap(err, "erro ao confirmar transação")
	}

	result.Elapsed = time.Since(startTime)
	logger.WithFields(log.Fields{
		"inserted": result.Inserted,
		"batches":  result.Batches,
		"elapsed":  result.Elapsed.String(),
	}).Info("Carga de pedidos concluída")

	return result, nil
}

func (l *OrderLoader) buildInsert(batch []domain.OrderRecord) (string, []any, error) {
	builder := squirrel.
		Insert(l.table).
		Columns(orderColumns...).
		PlaceholderFormat(database.PlaceholderFor(l.conn.Driver))

	for _, order := range batch {
		id, err := l.newID()
		if err != nil {
			return "", nil, err
		}
		builder = builder.Values(
			id,
			order.CustomerID,
			order.OrderID,
			order.OrderDate.UTC(),
			order.ProductName,
			order.OrderValue,
			order.DiscountGiven,
		)
	}

	return builder.ToSql()
}

func createTableStatements(driver, table string) []string {
	if driver == postgres.DriverName {
		return []string{
			fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	id VARCHAR(21) PRIMARY KEY,
	user_id VARCHAR(64) NOT NULL,
	order_id VARCHAR(64) NOT NULL,
	order_date TIMESTAMP NOT NULL,
	product_name VARCHAR(255),
	order_value NUMERIC(12,2) NOT NULL,
	discount_given NUMERIC(12,2) DEFAULT 0
)`, table),
			fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_order_date ON %s (order_date)`, table, table),
		}
	}

	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	id VARCHAR(21) PRIMARY KEY,
	user_id VARCHAR(64) NOT NULL,
	order_id VARCHAR(64) NOT NULL,
	order_date DATETIME NOT NULL,
	product_name VARCHAR(255),
	order_value DECIMAL(12,2) NOT NULL,
	discount_given DECIMAL(12,2) DEFAULT 0,
	INDEX idx_%s_order_date (order_date)
)`, table, table),
	}
}

func splitBatches(orders []domain.OrderRecord, size int) [][]domain.OrderRecord {
	batches := make([][]domain.OrderRecord, 0, len(orders)/size+1)
	for start := 0; start < len(orders); start += size {
		end := min(start+size, len(orders))
		batches = append(batches, orders[start:end])
	}
	return batches
}
