package postgres

import (
	"context"
	"database/sql"

	_ "github.com/lib/pq"
)

const DriverName = "postgres"

// NewConnection abre e valida uma conexão com o PostgreSQL
func NewConnection(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dsn)
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
