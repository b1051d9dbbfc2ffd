package types

import (
	"fmt"
	"reflect"

	"github.com/biyonik/conduit-orm/pkg/validation"
)

// ArrayType dizileri doğrular; Elements ile her eleman ayrıca doğrulanır.
type ArrayType struct {
	BaseType
	minLength *int
	maxLength *int
	element   validation.Type
}

func (a *ArrayType) Required() *ArrayType {
	a.SetRequired()
	return a
}

func (a *ArrayType) Label(label string) *ArrayType {
	a.SetLabel(label)
	return a
}

func (a *ArrayType) Min(length int) *ArrayType {
	a.minLength = &length
	return a
}

func (a *ArrayType) Max(length int) *ArrayType {
	a.maxLength = &length
	return a
}

// Elements her elemanın uyması gereken tipi belirler.
func (a *ArrayType) Elements(t validation.Type) *ArrayType {
	a.element = t
	return a
}

// Transform her slice tipini []any'e çevirir ve eleman dönüşümlerini
// uygular.
func (a *ArrayType) Transform(value any) (any, error) {
	value, err := a.BaseType.Transform(value)
	if err != nil || value == nil {
		return value, err
	}

	items, ok := toSlice(value)
	if !ok {
		return nil, fmt.Errorf("dizi (array) tipinde olmalıdır")
	}
	if a.element == nil {
		return items, nil
	}
	out := make([]any, len(items))
	for i, item := range items {
		v, err := a.element.Transform(item)
		if err != nil {
			return nil, fmt.Errorf("dizi index %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

func (a *ArrayType) Validate(field string, value any, result *validation.ValidationResult) {
	if !a.check(field, value, result) {
		return
	}

	fieldName := a.name(field)
	items, ok := toSlice(value)
	if !ok {
		result.AddError(field, fmt.Sprintf("%s alanı dizi (array) tipinde olmalıdır", fieldName))
		return
	}

	if a.minLength != nil && len(items) < *a.minLength {
		result.AddError(field, fmt.Sprintf("%s alanında en az %d eleman olmalıdır", fieldName, *a.minLength))
	}
	if a.maxLength != nil && len(items) > *a.maxLength {
		result.AddError(field, fmt.Sprintf("%s alanında en fazla %d eleman olmalıdır", fieldName, *a.maxLength))
	}
	if a.element != nil {
		for i, item := range items {
			a.element.Validate(fmt.Sprintf("%s[%d]", field, i), item, result)
		}
	}
}

func toSlice(value any) ([]any, bool) {
	if items, ok := value.([]any); ok {
		return items, true
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	// []byte JSON metnidir, dizi değil.
	if rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, false
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, true
}
