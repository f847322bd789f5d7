package qb

type BindingType int

const (
	BindingSelect BindingType = iota
	BindingFrom
	BindingJoin
	BindingWhere
	BindingGroupBy
	BindingHaving
	BindingOrder
	BindingUnion
	BindingUnionOrder

	bindingTypesCount
)

var bindingTypeNames = [bindingTypesCount]string{
	"select", "from", "join", "where", "groupBy", "having", "order", "union", "unionOrder",
}

func (t BindingType) String() string {
	if t < 0 || t >= bindingTypesCount {
		return "unknown"
	}
	return bindingTypeNames[t]
}

// Bindings holds bind values partitioned by the clause they belong to. The
// buckets are ordered the same way the Grammar emits clauses so that
// Flatten lines up with the placeholders of the compiled query.
type Bindings [bindingTypesCount][]any

func (b *Bindings) add(typ BindingType, values ...any) {
	for _, v := range values {
		if isExpression(v) {
			continue
		}
		b[typ] = append(b[typ], v)
	}
}

func (b *Bindings) reset(typ BindingType) {
	b[typ] = nil
}

// Flatten concatenates every bucket in clause order.
func (b Bindings) Flatten(except ...BindingType) []any {
	out := []any{}
outer:
	for typ, values := range b {
		for _, e := range except {
			if BindingType(typ) == e {
				continue outer
			}
		}
		out = append(out, values...)
	}
	return out
}

func (b Bindings) clone() Bindings {
	var out Bindings
	for typ, values := range b {
		if values != nil {
			out[typ] = append([]any(nil), values...)
		}
	}
	return out
}
