package infrastructure

import (
	"context"
	"database/sql"

	_ "modernc.org/sqlite" // registers the "sqlite" database/sql driver
)

// SQLiteConnector serves the content table from a local database file.
type SQLiteConnector struct {
	path string
}

func NewSQLiteConnector(path string) *SQLiteConnector {
	return &SQLiteConnector{path: path}
}

func (s *SQLiteConnector) Open(ctx context.Context) (*sql.DB, error) {
	return openSingle(ctx, "sqlite", s.path)
}

func (s *SQLiteConnector) Dialect() Dialect {
	return DialectSQLite
}
