package qb

import (
	"fmt"
	"strings"
)

// Grammar compiles Builder state into SQL text. It keeps no state besides its
// dialect and table prefix, so one Grammar can compile any number of queries.
type Grammar struct {
	dialect     *Dialect
	tablePrefix string
}

// NewGrammar creates a Grammar for dialect, SQLite when dialect is nil.
func NewGrammar(dialect *Dialect) *Grammar {
	if dialect == nil {
		dialect = Dialects.SQLite3
	}
	return &Grammar{dialect: dialect}
}

func (g *Grammar) clone() *Grammar {
	c := *g
	return &c
}

func (g *Grammar) Dialect() *Dialect {
	return g.dialect
}

func (g *Grammar) SetTablePrefix(prefix string) *Grammar {
	g.tablePrefix = prefix
	return g
}

func (g *Grammar) TablePrefix() string {
	return g.tablePrefix
}

// Wrap quotes an identifier. Expressions are returned as is, "x as y" quotes
// both sides and dotted names are quoted segment by segment, the table
// segment of a qualified column gets the table prefix.
func (g *Grammar) Wrap(value any) string {
	switch v := value.(type) {
	case Expression:
		return v.Value()
	case string:
		if column, alias, ok := strings.Cut(v, " as "); ok {
			return g.Wrap(column) + " as " + g.WrapValue(alias)
		}
		segments := strings.Split(v, ".")
		if len(segments) > 1 {
			segments[len(segments)-2] = g.tablePrefix + segments[len(segments)-2]
		}
		return g.wrapSegments(segments)
	default:
		return fmt.Sprint(v)
	}
}

func (g *Grammar) wrapSegments(segments []string) string {
	wrapped := make([]string, 0, len(segments))
	for _, segment := range segments {
		wrapped = append(wrapped, g.WrapValue(segment))
	}
	return strings.Join(wrapped, ".")
}

// WrapTable quotes a table name, adding the table prefix to the table and to
// its alias. In "schema.table" only the table is prefixed.
func (g *Grammar) WrapTable(table any) string {
	switch t := table.(type) {
	case Expression:
		return t.Value()
	case string:
		if name, alias, ok := strings.Cut(t, " as "); ok {
			return g.WrapTable(name) + " as " + g.WrapValue(g.tablePrefix+alias)
		}
		segments := strings.Split(t, ".")
		segments[len(segments)-1] = g.tablePrefix + segments[len(segments)-1]
		return g.wrapSegments(segments)
	default:
		return fmt.Sprint(t)
	}
}

// WrapValue quotes a single identifier segment.
func (g *Grammar) WrapValue(value string) string {
	if value == "*" {
		return value
	}
	q := g.dialect.QuoteChar
	return q + strings.ReplaceAll(value, q, q+q) + q
}

func (g *Grammar) Columnize(columns []any) string {
	if len(columns) == 0 {
		return "*"
	}
	wrapped := make([]string, 0, len(columns))
	for _, column := range columns {
		wrapped = append(wrapped, g.Wrap(column))
	}
	return strings.Join(wrapped, ", ")
}

// Parameter returns the placeholder for value, or the value itself when it
// is an Expression.
func (g *Grammar) Parameter(value any) string {
	if e, ok := value.(Expression); ok {
		return e.Value()
	}
	return "?"
}

func (g *Grammar) Parameterize(values []any) string {
	params := make([]string, 0, len(values))
	for _, v := range values {
		params = append(params, g.Parameter(v))
	}
	return strings.Join(params, ", ")
}

// CompileSelect emits the select statement. The clause order here is the
// order of the binding buckets, which keeps placeholders and bindings aligned.
func (g *Grammar) CompileSelect(b *Builder) string {
	sections := []string{}
	for _, section := range []string{
		g.compileAggregate(b),
		g.compileColumns(b),
		g.compileFrom(b),
		g.compileJoins(b),
		g.compileWheres(b),
		g.compileGroups(b),
		g.compileHavings(b),
		g.compileOrders(b),
		g.compileLimit(b),
		g.compileOffset(b),
	} {
		if section != "" {
			sections = append(sections, section)
		}
	}
	return strings.Join(sections, " ")
}

func (g *Grammar) compileAggregate(b *Builder) string {
	if b.aggregate == nil {
		return ""
	}
	column := g.Wrap(b.aggregate.column)
	if b.distinct && column != "*" {
		column = "distinct " + column
	}
	return fmt.Sprintf("select %s(%s) as aggregate", b.aggregate.function, column)
}

func (g *Grammar) compileColumns(b *Builder) string {
	if b.aggregate != nil {
		return ""
	}
	if b.distinct {
		return "select distinct " + g.Columnize(b.columns)
	}
	return "select " + g.Columnize(b.columns)
}

func (g *Grammar) compileFrom(b *Builder) string {
	if b.from == nil || b.from == "" {
		return ""
	}
	return "from " + g.WrapTable(b.from)
}

func (g *Grammar) compileJoins(b *Builder) string {
	joins := make([]string, 0, len(b.joins))
	for _, j := range b.joins {
		if j.kind == "cross" {
			joins = append(joins, "cross join "+g.WrapTable(j.table))
			continue
		}
		joins = append(joins, fmt.Sprintf("%s join %s on %s %s %s",
			j.kind, g.WrapTable(j.table), g.Wrap(j.first), j.operator, g.Wrap(j.second)))
	}
	return strings.Join(joins, " ")
}

func (g *Grammar) compileWheres(b *Builder) string {
	if len(b.wheres) == 0 {
		return ""
	}
	return "where " + g.concatPredicates(b.wheres, g.compileWhere)
}

// concatPredicates joins the compiled predicates with their connectors. The
// connector of the first predicate is dropped, keeping a trailing "not".
func (g *Grammar) concatPredicates(predicates []predicate, compile func(p predicate) string) string {
	parts := make([]string, 0, len(predicates))
	for i, p := range predicates {
		connector := p.boolean
		if i == 0 {
			connector = leadingConnector(p.boolean)
		}
		if connector == "" {
			parts = append(parts, compile(p))
			continue
		}
		parts = append(parts, connector+" "+compile(p))
	}
	return strings.Join(parts, " ")
}

func leadingConnector(boolean string) string {
	fields := strings.Fields(boolean)
	if len(fields) > 0 && (fields[0] == and || fields[0] == or) {
		fields = fields[1:]
	}
	return strings.Join(fields, " ")
}

func (g *Grammar) compileWhere(p predicate) string {
	switch p.typ {
	case predicateBasic:
		return fmt.Sprintf("%s %s %s", g.Wrap(p.column), p.operator, g.Parameter(p.value))
	case predicateColumn:
		return fmt.Sprintf("%s %s %s", g.Wrap(p.first), p.operator, g.Wrap(p.second))
	case predicateRaw:
		return p.sql
	case predicateIn:
		if len(p.values) == 0 {
			return "0=1"
		}
		return fmt.Sprintf("%s in (%s)", g.Wrap(p.column), g.Parameterize(p.values))
	case predicateNotIn:
		if len(p.values) == 0 {
			return "1=1"
		}
		return fmt.Sprintf("%s not in (%s)", g.Wrap(p.column), g.Parameterize(p.values))
	case predicateNull:
		return g.Wrap(p.column) + " is null"
	case predicateNotNull:
		return g.Wrap(p.column) + " is not null"
	case predicateBetween:
		return fmt.Sprintf("%s %s %s and %s",
			g.Wrap(p.column), between(p.not), g.Parameter(p.values[0]), g.Parameter(p.values[1]))
	case predicateBetweenColumns:
		return fmt.Sprintf("%s %s %s and %s",
			g.Wrap(p.column), between(p.not), g.Wrap(p.values[0]), g.Wrap(p.values[1]))
	case predicateNested:
		return "(" + g.concatPredicates(p.query.wheres, g.compileWhere) + ")"
	case predicateSub:
		return fmt.Sprintf("%s %s (%s)", g.Wrap(p.column), p.operator, g.CompileSelect(p.query))
	case predicateExists:
		return "exists (" + g.CompileSelect(p.query) + ")"
	case predicateNotExists:
		return "not exists (" + g.CompileSelect(p.query) + ")"
	}
	return ""
}

func between(not bool) string {
	if not {
		return "not between"
	}
	return "between"
}

func (g *Grammar) compileGroups(b *Builder) string {
	if len(b.groups) == 0 {
		return ""
	}
	return "group by " + g.Columnize(b.groups)
}

func (g *Grammar) compileHavings(b *Builder) string {
	if len(b.havings) == 0 {
		return ""
	}
	return "having " + g.concatPredicates(b.havings, g.compileHaving)
}

func (g *Grammar) compileHaving(p predicate) string {
	switch p.typ {
	case predicateBasic:
		return fmt.Sprintf("%s %s %s", g.Wrap(p.column), p.operator, g.Parameter(p.value))
	case predicateRaw:
		return p.sql
	case predicateNull:
		return g.Wrap(p.column) + " is null"
	case predicateNotNull:
		return g.Wrap(p.column) + " is not null"
	case predicateNested:
		return "(" + g.concatPredicates(p.query.havings, g.compileHaving) + ")"
	case predicateBetween:
		return fmt.Sprintf("%s %s %s and %s",
			g.Wrap(p.column), between(p.not), g.Parameter(p.values[0]), g.Parameter(p.values[1]))
	}
	return ""
}

func (g *Grammar) compileOrders(b *Builder) string {
	if len(b.orders) == 0 {
		return ""
	}
	orders := make([]string, 0, len(b.orders))
	for _, o := range b.orders {
		switch {
		case o.sql != "":
			orders = append(orders, o.sql)
		case isExpression(o.column):
			orders = append(orders, g.Wrap(o.column))
		default:
			orders = append(orders, g.Wrap(o.column)+" "+o.direction)
		}
	}
	return "order by " + strings.Join(orders, ", ")
}

func (g *Grammar) compileLimit(b *Builder) string {
	if b.limit <= 0 {
		return ""
	}
	return fmt.Sprintf("limit %d", b.limit)
}

func (g *Grammar) compileOffset(b *Builder) string {
	if b.offset <= 0 {
		return ""
	}
	return fmt.Sprintf("offset %d", b.offset)
}

// CompileInsert emits one placeholder group per row. Columns are taken from
// the first row and every row is read in that order.
func (g *Grammar) CompileInsert(b *Builder, rows []Pairs) string {
	keys := rows[0].Keys()
	columns := make([]any, 0, len(keys))
	for _, k := range keys {
		columns = append(columns, k)
	}
	groups := make([]string, 0, len(rows))
	for _, row := range rows {
		groups = append(groups, "("+g.Parameterize(rowValues(keys, row))+")")
	}
	return fmt.Sprintf("insert into %s (%s) values %s",
		g.WrapTable(b.from), g.Columnize(columns), strings.Join(groups, ", "))
}

// rowValues reads row in keys order, missing keys are nil.
func rowValues(keys []string, row Pairs) []any {
	values := make([]any, 0, len(keys))
	for _, k := range keys {
		v, _ := row.Get(k)
		values = append(values, v)
	}
	return values
}

func (g *Grammar) CompileUpdate(b *Builder, values Pairs) string {
	columns := make([]string, 0, len(values))
	for _, pair := range values {
		columns = append(columns, g.Wrap(pair.Key)+" = "+g.Parameter(pair.Value))
	}
	sql := fmt.Sprintf("update %s set %s", g.WrapTable(b.from), strings.Join(columns, ", "))
	if wheres := g.compileWheres(b); wheres != "" {
		sql += " " + wheres
	}
	return sql
}

func (g *Grammar) CompileDelete(b *Builder) string {
	sql := "delete from " + g.WrapTable(b.from)
	if wheres := g.compileWheres(b); wheres != "" {
		sql += " " + wheres
	}
	return sql
}
