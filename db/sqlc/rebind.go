package sqlc

import (
	"context"
	"database/sql"
	"regexp"
)

var positionalParam = regexp.MustCompile(`\$(\d+)`)

// RebindDBTX turns postgres positional parameters ($1) into the sqlite
// numbered form (?1) so the generated queries run on both drivers.
type RebindDBTX struct {
	db DBTX
}

func NewRebindDBTX(db DBTX) RebindDBTX {
	return RebindDBTX{db: db}
}

func rebind(query string) string {
	return positionalParam.ReplaceAllString(query, "?$1")
}

func (r RebindDBTX) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return r.db.ExecContext(ctx, rebind(query), args...)
}

func (r RebindDBTX) PrepareContext(ctx context.Context, query string) (*sql.Stmt, error) {
	return r.db.PrepareContext(ctx, rebind(query))
}

func (r RebindDBTX) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return r.db.QueryContext(ctx, rebind(query), args...)
}

func (r RebindDBTX) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return r.db.QueryRowContext(ctx, rebind(query), args...)
}

var _ DBTX = RebindDBTX{}
