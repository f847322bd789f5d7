package lite

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"

	"github.com/golobby/lite/qb"
)

var scannerType = reflect.TypeOf((*sql.Scanner)(nil)).Elem()

// Bind copies rows into dest, which should be a pointer to a struct or to a
// slice of structs or struct pointers. Columns are matched with fields the
// way qb.PairsOf names them; columns without a field are ignored.
func Bind(rows []qb.Row, dest any) error {
	v := reflect.ValueOf(dest)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return fmt.Errorf("bind destination should be a non nil pointer, got %T", dest)
	}
	v = v.Elem()

	if v.Kind() != reflect.Slice {
		if len(rows) == 0 {
			return nil
		}
		return bindRow(rows[0], v)
	}

	elem := v.Type().Elem()
	slice := reflect.MakeSlice(v.Type(), 0, len(rows))
	for _, row := range rows {
		// newing till we reach a non pointer type
		item := reflect.New(elem).Elem()
		target := item
		for target.Kind() == reflect.Ptr {
			target.Set(reflect.New(target.Type().Elem()))
			target = target.Elem()
		}
		if err := bindRow(row, target); err != nil {
			return err
		}
		slice = reflect.Append(slice, item)
	}
	v.Set(slice)
	return nil
}

func bindRow(row qb.Row, v reflect.Value) error {
	if v.Kind() != reflect.Struct {
		return fmt.Errorf("cannot bind a row into %s", v.Type())
	}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		ft := t.Field(i)
		if !ft.IsExported() {
			continue
		}
		column, _, skip := qb.FieldColumn(ft)
		if skip {
			continue
		}
		value, ok := row[column]
		if !ok {
			continue
		}
		if err := setField(v.Field(i), value); err != nil {
			return fmt.Errorf("bind column %s into %s.%s: %w", column, t.Name(), ft.Name, err)
		}
	}
	return nil
}

func setField(field reflect.Value, value any) error {
	if field.Addr().Type().Implements(scannerType) {
		return field.Addr().Interface().(sql.Scanner).Scan(value)
	}
	if value == nil {
		field.Set(reflect.Zero(field.Type()))
		return nil
	}
	if field.Kind() == reflect.Ptr {
		ptr := reflect.New(field.Type().Elem())
		if err := setField(ptr.Elem(), value); err != nil {
			return err
		}
		field.Set(ptr)
		return nil
	}

	rv := reflect.ValueOf(value)
	switch {
	case rv.Type().AssignableTo(field.Type()):
		field.Set(rv)
	case sameFamily(rv.Kind(), field.Kind()) && rv.Type().ConvertibleTo(field.Type()):
		field.Set(rv.Convert(field.Type()))
	default:
		return fmt.Errorf("cannot assign %T to %s", value, field.Type())
	}
	return nil
}

// sameFamily reports whether a and b are both numbers, both strings or both
// booleans. Conversions across families, like int to string, are refused.
func sameFamily(a, b reflect.Kind) bool {
	return kindFamily(a) != 0 && kindFamily(a) == kindFamily(b)
}

func kindFamily(k reflect.Kind) int {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return 1
	case reflect.String:
		return 2
	case reflect.Bool:
		return 3
	}
	return 0
}

// GetAs runs the query and binds every row into a T.
func GetAs[T any](ctx context.Context, b *qb.Builder) ([]T, error) {
	rows, err := b.Get(ctx)
	if err != nil {
		return nil, err
	}
	out := []T{}
	if err := Bind(rows, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FirstAs binds the first row of the query into a T, nil when there is none.
func FirstAs[T any](ctx context.Context, b *qb.Builder) (*T, error) {
	row, err := b.First(ctx)
	if err != nil || row == nil {
		return nil, err
	}
	out := new(T)
	if err := Bind([]qb.Row{row}, out); err != nil {
		return nil, err
	}
	return out, nil
}
