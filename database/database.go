package database

import (
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// Querier is the subset of database/sql operations the query builders
// need. It is satisfied by *sql.DB, *sql.Tx, and *sql.Conn, so callers
// that need cross-statement atomicity can pass a transaction.
type Querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}
