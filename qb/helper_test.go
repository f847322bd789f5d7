package qb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"strings"
)

type call struct {
	method   string
	query    string
	bindings []any
}

// fakeConnection records every statement it is given. Aggregate queries
// return count, other selects return rows.
type fakeConnection struct {
	calls []call
	rows  []Row
	count any
	err   error
}

func (f *fakeConnection) record(method, query string, bindings []any) {
	f.calls = append(f.calls, call{method: method, query: query, bindings: bindings})
}

func (f *fakeConnection) First(_ context.Context, query string, bindings []any) (Row, error) {
	f.record("First", query, bindings)
	if f.err != nil {
		return nil, f.err
	}
	if strings.Contains(query, " as aggregate") {
		return Row{"aggregate": f.count}, nil
	}
	if len(f.rows) == 0 {
		return nil, nil
	}
	return f.rows[0], nil
}

func (f *fakeConnection) Select(_ context.Context, query string, bindings []any) ([]Row, error) {
	f.record("Select", query, bindings)
	return f.rows, f.err
}

func (f *fakeConnection) Insert(_ context.Context, query string, bindings []any) (sql.Result, error) {
	f.record("Insert", query, bindings)
	return driver.RowsAffected(1), f.err
}

func (f *fakeConnection) Update(_ context.Context, query string, bindings []any) (sql.Result, error) {
	f.record("Update", query, bindings)
	return driver.RowsAffected(1), f.err
}

func (f *fakeConnection) Delete(_ context.Context, query string, bindings []any) (sql.Result, error) {
	f.record("Delete", query, bindings)
	return driver.RowsAffected(1), f.err
}

func (f *fakeConnection) methods() []string {
	var out []string
	for _, c := range f.calls {
		out = append(out, c.method)
	}
	return out
}

func query() *Builder {
	return New(nil)
}

func mustSql(b *Builder) string {
	sql, err := b.ToSql()
	if err != nil {
		panic(err)
	}
	return sql
}
