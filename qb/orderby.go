package qb

import "strings"

const (
	Asc  = "asc"
	Desc = "desc"
)

type order struct {
	column    any
	direction string
	sql       string
}

// OrderBy sorts ascending on column. column may be a name, an Expression, a
// *Builder or a callback building a subquery.
func (b *Builder) OrderBy(column any) *Builder {
	return b.OrderByDirection(column, Asc)
}

func (b *Builder) OrderByDesc(column any) *Builder {
	return b.OrderByDirection(column, Desc)
}

// OrderByDirection sorts on column, any direction other than "desc" sorts
// ascending.
func (b *Builder) OrderByDirection(column any, direction string) *Builder {
	if isQueryable(column) {
		sql, bindings, err := b.createSub(column)
		if err != nil {
			return b.setErr(err)
		}
		b.addBinding(BindingOrder, bindings...)
		column = Raw("(" + sql + ")")
	}
	direction = strings.ToLower(strings.TrimSpace(direction))
	if direction != Desc {
		direction = Asc
	}
	b.orders = append(b.orders, order{column: column, direction: direction})
	return b
}

func (b *Builder) OrderByRaw(sql string, bindings ...any) *Builder {
	b.orders = append(b.orders, order{sql: sql})
	return b.addBinding(BindingOrder, bindings...)
}
