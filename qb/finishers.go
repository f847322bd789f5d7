package qb

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

func (b *Builder) ready() error {
	if b.err != nil {
		return b.err
	}
	if b.connection == nil {
		return ErrNoConnection
	}
	return nil
}

// Find returns the row whose id equals id, nil when there is none.
func (b *Builder) Find(ctx context.Context, id any, columns ...any) (Row, error) {
	return b.Clone().Where("id", "=", id).First(ctx, columns...)
}

// First returns the first row of the query, nil when there is none. No limit
// is added to the query.
func (b *Builder) First(ctx context.Context, columns ...any) (Row, error) {
	q := b
	if len(columns) > 0 {
		q = b.Clone().Select(columns...)
	}
	if err := q.ready(); err != nil {
		return nil, err
	}
	return q.connection.First(ctx, q.grammar.CompileSelect(q), q.GetBindings())
}

// Value returns a single column of the first row.
func (b *Builder) Value(ctx context.Context, column string) (any, error) {
	row, err := b.First(ctx, column)
	if err != nil || row == nil {
		return nil, err
	}
	if v, ok := row[resultKey(column)]; ok {
		return v, nil
	}
	if len(row) == 1 {
		for _, v := range row {
			return v, nil
		}
	}
	return nil, nil
}

// resultKey is the name the engine gives to a selected column.
func resultKey(column string) string {
	if i := strings.LastIndex(column, " as "); i >= 0 {
		return strings.TrimSpace(column[i+len(" as "):])
	}
	if i := strings.LastIndex(column, "."); i >= 0 {
		return column[i+1:]
	}
	return column
}

// Get runs the query and returns every row.
func (b *Builder) Get(ctx context.Context, columns ...any) ([]Row, error) {
	q := b
	if len(columns) > 0 {
		q = b.Clone().Select(columns...)
	}
	if err := q.ready(); err != nil {
		return nil, err
	}
	return q.connection.Select(ctx, q.grammar.CompileSelect(q), q.GetBindings())
}

// Aggregate runs `select fn(column) as aggregate` over the query.
func (b *Builder) Aggregate(ctx context.Context, function string, column string) (any, error) {
	q := b.Clone()
	q.columns = nil
	q.bindings.reset(BindingSelect)
	q.aggregate = &aggregate{function: function, column: column}
	row, err := q.First(ctx)
	if err != nil || row == nil {
		return nil, err
	}
	return row["aggregate"], nil
}

// Count counts the rows of the query, on "*" when no column is given.
func (b *Builder) Count(ctx context.Context, columns ...string) (int64, error) {
	column := "*"
	if len(columns) > 0 {
		column = columns[0]
	}
	v, err := b.Aggregate(ctx, "count", column)
	if err != nil {
		return 0, err
	}
	return toInt64(v)
}

func (b *Builder) Min(ctx context.Context, column string) (any, error) {
	return b.Aggregate(ctx, "min", column)
}

func (b *Builder) Max(ctx context.Context, column string) (any, error) {
	return b.Aggregate(ctx, "max", column)
}

func (b *Builder) Avg(ctx context.Context, column string) (any, error) {
	return b.Aggregate(ctx, "avg", column)
}

func (b *Builder) Sum(ctx context.Context, column string) (any, error) {
	return b.Aggregate(ctx, "sum", column)
}

func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case nil:
		return 0, nil
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case uint64:
		return int64(n), nil
	case float64:
		return int64(n), nil
	case []byte:
		return strconv.ParseInt(string(n), 10, 64)
	case string:
		return strconv.ParseInt(n, 10, 64)
	default:
		return 0, fmt.Errorf("cannot convert %T to a count", v)
	}
}

// Paginate returns one page of the query together with its metadata. The
// total is counted on a copy without columns, orders, limit and offset. When
// it is zero the rows are not queried.
func (b *Builder) Paginate(ctx context.Context, page int, perPage int, columns ...any) (*Paginator, error) {
	if b.err != nil {
		return nil, b.err
	}
	if len(b.groups) > 0 || len(b.havings) > 0 {
		return nil, fmt.Errorf("%w: paginate on a grouped query", ErrUnsupported)
	}
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	if page < 1 {
		page = 1
	}

	counter := b.Clone()
	counter.columns = nil
	counter.orders = nil
	counter.limit = 0
	counter.offset = 0
	counter.bindings.reset(BindingSelect)
	counter.bindings.reset(BindingOrder)
	total, err := counter.Count(ctx)
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return NewPaginator(nil, 0, perPage, page), nil
	}

	items, err := b.Clone().ForPage(page, perPage).Get(ctx, columns...)
	if err != nil {
		return nil, err
	}
	return NewPaginator(items, total, perPage, page), nil
}
