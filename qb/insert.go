package qb

import (
	"context"
	"database/sql"
	"fmt"
)

// InsertSql compiles an insert of rows into the from table. Every element of
// rows goes through PairsOf. Columns come from the first row.
func (b *Builder) InsertSql(rows ...any) (string, []any, error) {
	if b.err != nil {
		return "", nil, b.err
	}
	if len(rows) == 0 {
		return "", nil, fmt.Errorf("%w: insert into %v", ErrNoValues, b.from)
	}
	all := make([]Pairs, 0, len(rows))
	for _, row := range rows {
		pairs, err := PairsOf(row)
		if err != nil {
			return "", nil, err
		}
		all = append(all, pairs)
	}
	if len(all[0]) == 0 {
		return "", nil, fmt.Errorf("%w: insert into %v", ErrNoValues, b.from)
	}

	keys := all[0].Keys()
	var bindings Bindings
	for _, row := range all {
		bindings.add(BindingSelect, rowValues(keys, row)...)
	}
	return b.grammar.CompileInsert(b, all), bindings.Flatten(), nil
}

// Insert inserts rows, see InsertSql.
func (b *Builder) Insert(ctx context.Context, rows ...any) (sql.Result, error) {
	query, bindings, err := b.InsertSql(rows...)
	if err != nil {
		return nil, err
	}
	if b.connection == nil {
		return nil, ErrNoConnection
	}
	return b.connection.Insert(ctx, query, bindings)
}
