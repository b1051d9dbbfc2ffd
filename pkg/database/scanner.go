package database

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"
)

// -----------------------------------------------------------------------------
// Row Binder
// -----------------------------------------------------------------------------
// BindRow bir Row'u `db` tag'leri üzerinden struct'a yazar. Tag yoksa alan
// adının küçük harfli hali kullanılır, "-" alanı atlar. Gömülü struct'lar
// özyineli işlenir. Struct başına alan haritası bir kez hesaplanır ve
// cache'lenir.
//
// Kullanım:
//
//	type Employee struct {
//	    ID         string     `db:"id"`
//	    Name       string     `db:"name"`
//	    Department *Department `db:"department"`
//	}
//
//	var e Employee
//	err := database.BindRow(row, &e)
// -----------------------------------------------------------------------------

// fieldMap kolon adı → alan index yolu.
type fieldMap map[string][]int

var fieldCache sync.Map // reflect.Type → fieldMap

func structFields(t reflect.Type) fieldMap {
	if cached, ok := fieldCache.Load(t); ok {
		return cached.(fieldMap)
	}

	mapping := make(fieldMap)
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			for col, path := range structFields(field.Type) {
				mapping[col] = append([]int{i}, path...)
			}
			continue
		}
		if !field.IsExported() {
			continue
		}

		tag := field.Tag.Get("db")
		if tag == "-" {
			continue
		}
		if tag == "" {
			tag = strings.ToLower(field.Name)
		}
		if comma := strings.Index(tag, ","); comma >= 0 {
			tag = tag[:comma]
		}
		mapping[tag] = []int{i}
	}

	actual, _ := fieldCache.LoadOrStore(t, mapping)
	return actual.(fieldMap)
}

// BindRow row değerlerini dest struct pointer'ına yazar. Struct'ta karşılığı
// olmayan kolonlar yok sayılır.
func BindRow(row Row, dest any) error {
	v := reflect.ValueOf(dest)
	if v.Kind() != reflect.Ptr || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("bind: dest must be a non-nil struct pointer, got %T", dest)
	}
	return bindStruct(row, v.Elem())
}

// BindRows satırları dest slice pointer'ına ekler.
func BindRows(rows []Row, dest any) error {
	v := reflect.ValueOf(dest)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("bind: dest must be a slice pointer, got %T", dest)
	}
	slice := v.Elem()
	elemType := slice.Type().Elem()
	isPtr := elemType.Kind() == reflect.Ptr
	if isPtr {
		elemType = elemType.Elem()
	}

	for _, row := range rows {
		item := reflect.New(elemType)
		if err := bindStruct(row, item.Elem()); err != nil {
			return err
		}
		if isPtr {
			slice.Set(reflect.Append(slice, item))
		} else {
			slice.Set(reflect.Append(slice, item.Elem()))
		}
	}
	return nil
}

func bindStruct(row Row, target reflect.Value) error {
	fields := structFields(target.Type())
	for col, value := range row {
		path, ok := fields[col]
		if !ok {
			continue
		}
		field := fieldByIndex(target, path)
		if err := assign(field, value); err != nil {
			return fmt.Errorf("bind: column %q: %w", col, err)
		}
	}
	return nil
}

// fieldByIndex nil gömülü pointer'ları yol üzerinde oluşturur.
func fieldByIndex(v reflect.Value, path []int) reflect.Value {
	for i, idx := range path {
		if i > 0 && v.Kind() == reflect.Ptr {
			if v.IsNil() {
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(idx)
	}
	return v
}

func assign(field reflect.Value, value any) error {
	if value == nil {
		field.Set(reflect.Zero(field.Type()))
		return nil
	}

	if field.Kind() == reflect.Ptr {
		ptr := reflect.New(field.Type().Elem())
		if err := assign(ptr.Elem(), value); err != nil {
			return err
		}
		field.Set(ptr)
		return nil
	}

	src := reflect.ValueOf(value)
	switch {
	case src.Type().AssignableTo(field.Type()):
		field.Set(src)
		return nil
	case field.Type() == reflect.TypeOf(time.Time{}):
		t, ok := toTime(value)
		if !ok {
			return fmt.Errorf("cannot convert %T to time.Time", value)
		}
		field.Set(reflect.ValueOf(t))
		return nil
	case field.Kind() == reflect.Struct:
		nested, ok := asRow(value)
		if !ok {
			return fmt.Errorf("cannot bind %T into %s", value, field.Type())
		}
		return bindStruct(nested, field)
	case field.Kind() == reflect.String:
		field.SetString(stringify(value))
		return nil
	case isNumericKind(field.Kind()):
		f, ok := toFloat(value)
		if !ok {
			return fmt.Errorf("cannot convert %T to %s", value, field.Type())
		}
		field.Set(reflect.ValueOf(f).Convert(field.Type()))
		return nil
	case field.Kind() == reflect.Bool:
		switch b := value.(type) {
		case int64:
			field.SetBool(b != 0)
			return nil
		case int:
			field.SetBool(b != 0)
			return nil
		}
	case src.Type().ConvertibleTo(field.Type()):
		field.Set(src.Convert(field.Type()))
		return nil
	}
	return fmt.Errorf("cannot convert %T to %s", value, field.Type())
}

func asRow(value any) (Row, bool) {
	switch m := value.(type) {
	case Row:
		return m, true
	case map[string]any:
		return Row(m), true
	}
	return nil, false
}

func isNumericKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
