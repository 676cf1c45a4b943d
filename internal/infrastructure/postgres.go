package infrastructure

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
)

// Connector opens a short-lived database handle. Callers own the returned
// *sql.DB and must Close it; nothing is pooled across calls.
type Connector interface {
	Open(ctx context.Context) (*sql.DB, error)
	Dialect() Dialect
}

type PostgresConnector struct {
	dsn string
}

func NewPostgresConnector(dsn string) *PostgresConnector {
	return &PostgresConnector{dsn: dsn}
}

func (p *PostgresConnector) Open(ctx context.Context) (*sql.DB, error) {
	return openSingle(ctx, "pgx", p.dsn)
}

func (p *PostgresConnector) Dialect() Dialect {
	return DialectPostgres
}

// openSingle opens a handle limited to one connection and verifies it.
func openSingle(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(0)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	return db, nil
}
