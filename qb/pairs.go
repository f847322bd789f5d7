package qb

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/mitranim/refut"
)

type Pair struct {
	Key   string
	Value any
}

// Pairs is an ordered list of column/value pairs. It is the single input type
// for map style wheres, inserts and updates.
type Pairs []Pair

func (p Pairs) Keys() []string {
	keys := make([]string, 0, len(p))
	for _, pair := range p {
		keys = append(keys, pair.Key)
	}
	return keys
}

func (p Pairs) Values() []any {
	values := make([]any, 0, len(p))
	for _, pair := range p {
		values = append(values, pair.Value)
	}
	return values
}

// Get returns the value stored under key.
func (p Pairs) Get(key string) (any, bool) {
	for _, pair := range p {
		if pair.Key == key {
			return pair.Value, true
		}
	}
	return nil, false
}

// PairsOf converts v into Pairs. v may be Pairs, a map with string keys
// (keys are sorted) or a struct or pointer to struct. Struct fields are
// named after their `db` tag, or the snake_case form of the field name;
// fields tagged `db:"-"`, unexported fields and zero fields tagged
// `db:",omitempty"` are skipped.
func PairsOf(v any) (Pairs, error) {
	switch v := v.(type) {
	case Pairs:
		return v, nil
	case map[string]any:
		return pairsFromMap(v), nil
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil, fmt.Errorf("cannot make pairs of nil %T", v)
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("cannot make pairs of %T: keys should be strings", v)
		}
		m := map[string]any{}
		iter := rv.MapRange()
		for iter.Next() {
			m[iter.Key().String()] = iter.Value().Interface()
		}
		return pairsFromMap(m), nil
	case reflect.Struct:
		return pairsFromStruct(rv), nil
	default:
		return nil, fmt.Errorf("cannot make pairs of %T", v)
	}
}

func pairsFromMap(m map[string]any) Pairs {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make(Pairs, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, Pair{Key: k, Value: m[k]})
	}
	return pairs
}

// FieldColumn returns the column a struct field maps to: its `db` tag, or the
// snake_case form of its name. skip is set for `db:"-"`.
func FieldColumn(ft reflect.StructField) (column string, omitEmpty bool, skip bool) {
	tag := ft.Tag.Get("db")
	if tag == "-" {
		return "", false, true
	}
	name := refut.TagIdent(tag)
	_, options, _ := strings.Cut(tag, ",")
	if name == "" {
		name = strcase.ToSnake(ft.Name)
	}
	return name, options == "omitempty", false
}

func pairsFromStruct(rv reflect.Value) Pairs {
	var pairs Pairs
	t := rv.Type()
	for i := 0; i < t.NumField(); i++ {
		ft := t.Field(i)
		if !ft.IsExported() {
			continue
		}
		name, omitEmpty, skip := FieldColumn(ft)
		if skip {
			continue
		}
		field := rv.Field(i)
		if omitEmpty && field.IsZero() {
			continue
		}
		pairs = append(pairs, Pair{Key: name, Value: field.Interface()})
	}
	return pairs
}
