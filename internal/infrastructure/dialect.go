package infrastructure

import "strconv"

// Dialect captures the few SQL differences between the supported stores.
type Dialect int

const (
	DialectPostgres Dialect = iota
	DialectSQLite
)

func (d Dialect) String() string {
	if d == DialectSQLite {
		return "sqlite"
	}
	return "postgres"
}

// Bind returns the placeholder for the n-th (1-based) query argument.
func (d Dialect) Bind(n int) string {
	if d == DialectSQLite {
		return "?"
	}
	return "$" + strconv.Itoa(n)
}

// LikeOperator is the case-insensitive substring operator. SQLite's LIKE
// already ignores ASCII case.
func (d Dialect) LikeOperator() string {
	if d == DialectSQLite {
		return "LIKE"
	}
	return "ILIKE"
}

// SerialPrimaryKey is the column definition for an auto-increment id.
func (d Dialect) SerialPrimaryKey() string {
	if d == DialectSQLite {
		return "id INTEGER PRIMARY KEY AUTOINCREMENT"
	}
	return "id SERIAL PRIMARY KEY"
}
