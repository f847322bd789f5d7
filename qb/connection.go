package qb

import (
	"context"
	"database/sql"
)

// Row is one result row keyed by column name.
type Row map[string]any

// Connection runs compiled statements. Placeholders in query are always `?`;
// implementations rebind them for their engine when needed.
type Connection interface {
	// First returns the first row, or a nil Row when nothing matched.
	First(ctx context.Context, query string, bindings []any) (Row, error)
	Select(ctx context.Context, query string, bindings []any) ([]Row, error)
	Insert(ctx context.Context, query string, bindings []any) (sql.Result, error)
	Update(ctx context.Context, query string, bindings []any) (sql.Result, error)
	Delete(ctx context.Context, query string, bindings []any) (sql.Result, error)
}
