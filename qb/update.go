package qb

import (
	"context"
	"database/sql"
	"fmt"
)

// UpdateSql compiles an update of the rows matched by the where clause.
// values goes through PairsOf. Only set values and where bindings are bound.
func (b *Builder) UpdateSql(values any) (string, []any, error) {
	if b.err != nil {
		return "", nil, b.err
	}
	pairs, err := PairsOf(values)
	if err != nil {
		return "", nil, err
	}
	if len(pairs) == 0 {
		return "", nil, fmt.Errorf("%w: update %v", ErrNoValues, b.from)
	}

	var bindings Bindings
	bindings.add(BindingSelect, pairs.Values()...)
	bindings.add(BindingWhere, b.bindings[BindingWhere]...)
	return b.grammar.CompileUpdate(b, pairs), bindings.Flatten(), nil
}

func (b *Builder) Update(ctx context.Context, values any) (sql.Result, error) {
	query, bindings, err := b.UpdateSql(values)
	if err != nil {
		return nil, err
	}
	if b.connection == nil {
		return nil, ErrNoConnection
	}
	return b.connection.Update(ctx, query, bindings)
}
