package lite

import (
	"reflect"

	"github.com/gertd/go-pluralize"
	"github.com/iancoleman/strcase"
	"github.com/mitranim/refut"
)

// Tabler lets an entity choose its table name.
type Tabler interface {
	TableName() string
}

var pluralizer = pluralize.NewClient()

// TableOf returns the table of entity: TableName when it implements Tabler,
// otherwise the plural snake_case form of its type name.
func TableOf(entity any) string {
	if t, ok := entity.(Tabler); ok {
		return t.TableName()
	}
	if entity == nil {
		return ""
	}
	typ := refut.RtypeDeref(reflect.TypeOf(entity))
	if typ.Kind() == reflect.Slice {
		typ = refut.RtypeDeref(typ.Elem())
	}
	return pluralizer.Plural(strcase.ToSnake(typ.Name()))
}
