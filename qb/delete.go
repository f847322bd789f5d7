package qb

import (
	"context"
	"database/sql"
	"strings"
)

// DeleteSql compiles a delete of the rows matched by the where clause.
func (b *Builder) DeleteSql() (string, []any, error) {
	if b.err != nil {
		return "", nil, b.err
	}
	bindings := append([]any{}, b.bindings[BindingWhere]...)
	return b.grammar.CompileDelete(b), bindings, nil
}

func (b *Builder) Delete(ctx context.Context) (sql.Result, error) {
	query, bindings, err := b.DeleteSql()
	if err != nil {
		return nil, err
	}
	if b.connection == nil {
		return nil, ErrNoConnection
	}
	return b.connection.Delete(ctx, query, bindings)
}

// DeleteByID deletes the row of the from table whose id equals id, on top of
// the existing where clause.
func (b *Builder) DeleteByID(ctx context.Context, id any) (sql.Result, error) {
	column := "id"
	if table := b.fromName(); table != "" {
		column = table + ".id"
	}
	return b.Clone().Where(column, "=", id).Delete(ctx)
}

// fromName is the name columns use to refer to the from table: its alias
// when it has one. It is empty for raw and subquery targets.
func (b *Builder) fromName() string {
	table, ok := b.from.(string)
	if !ok {
		return ""
	}
	if _, alias, ok := strings.Cut(table, " as "); ok {
		return alias
	}
	return table
}
