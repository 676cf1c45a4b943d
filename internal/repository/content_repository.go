package repository

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"dhonk_backend/internal/entities"
	"dhonk_backend/internal/infrastructure"
)

// ContentRepository reads brand pages from the content table. Every call
// opens and closes its own connection.
type ContentRepository struct {
	connector infrastructure.Connector
	table     string
}

func NewContentRepository(connector infrastructure.Connector, table string) *ContentRepository {
	return &ContentRepository{
		connector: connector,
		table:     table,
	}
}

// FindShortestMatch returns the page with the shortest content that contains
// query, ignoring case. Connection and query failures are reported as
// LookupUnavailable, never as a panic or a bare error.
func (r *ContentRepository) FindShortestMatch(ctx context.Context, query string) entities.LookupResult {
	db, err := r.connector.Open(ctx)
	if err != nil {
		return entities.LookupResult{Status: entities.LookupUnavailable, Err: err}
	}
	defer db.Close()

	d := r.connector.Dialect()
	stmt := fmt.Sprintf(
		"SELECT title, url, content FROM %s WHERE content %s %s ORDER BY LENGTH(content) ASC LIMIT 1",
		r.table, d.LikeOperator(), d.Bind(1),
	)

	var (
		row entities.ContentRow
		url sql.NullString
	)
	err = db.QueryRowContext(ctx, stmt, "%"+query+"%").Scan(&row.Title, &url, &row.Content)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.LookupResult{Status: entities.LookupNotFound}
	}
	if err != nil {
		return entities.LookupResult{Status: entities.LookupUnavailable, Err: fmt.Errorf("query %s: %w", r.table, err)}
	}
	row.URL = url.String
	return entities.LookupResult{Status: entities.LookupFound, Row: row}
}

// Migrate creates the content table when it does not exist yet.
func (r *ContentRepository) Migrate(ctx context.Context) error {
	db, err := r.connector.Open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	d := r.connector.Dialect()
	_, err = db.ExecContext(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			%s,
			title TEXT UNIQUE NOT NULL,
			url TEXT,
			content TEXT NOT NULL
		)`, r.table, d.SerialPrimaryKey()))
	if err != nil {
		return fmt.Errorf("create %s table: %w", r.table, err)
	}
	return nil
}

// SyncFromCSV upserts pages from a CSV file with a header row and the
// columns title, url, content. It returns the number of rows written.
func (r *ContentRepository) SyncFromCSV(ctx context.Context, filePath string) (int, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return 0, fmt.Errorf("failed to open CSV: %w", err)
	}
	defer file.Close()

	return r.Import(ctx, file)
}

// Import upserts pages read from CSV data, keyed by title, in one
// transaction.
func (r *ContentRepository) Import(ctx context.Context, csvData io.Reader) (int, error) {
	records, err := csv.NewReader(csvData).ReadAll()
	if err != nil {
		return 0, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(records) < 2 {
		return 0, nil
	}

	db, err := r.connector.Open(ctx)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	d := r.connector.Dialect()
	stmt := fmt.Sprintf(`
		INSERT INTO %s (title, url, content)
		VALUES (%s, %s, %s)
		ON CONFLICT (title) DO UPDATE
		SET url = excluded.url,
		    content = excluded.content`,
		r.table, d.Bind(1), d.Bind(2), d.Bind(3))

	written := 0
	// Skip header row
	for i := 1; i < len(records); i++ {
		rec := records[i]
		if len(rec) < 3 || strings.TrimSpace(rec[0]) == "" {
			continue
		}
		var url any
		if u := strings.TrimSpace(rec[1]); u != "" {
			url = u
		}
		if _, err := tx.ExecContext(ctx, stmt, strings.TrimSpace(rec[0]), url, rec[2]); err != nil {
			return 0, fmt.Errorf("upsert page %q: %w", rec[0], err)
		}
		written++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit pages: %w", err)
	}
	return written, nil
}
