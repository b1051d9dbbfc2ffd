package types

import (
	"fmt"
	"math"
	"reflect"

	"github.com/biyonik/conduit-orm/pkg/validation"
)

// NumberType sayısal değerleri doğrular. Tüm Go sayı tipleri kabul edilir.
type NumberType struct {
	BaseType
	min       *float64
	max       *float64
	isInteger bool
}

func (n *NumberType) Required() *NumberType {
	n.SetRequired()
	return n
}

func (n *NumberType) Label(label string) *NumberType {
	n.SetLabel(label)
	return n
}

// Default sayısal varsayılan değer atar; float64'e çevrilir.
func (n *NumberType) Default(value float64) *NumberType {
	n.SetDefault(value)
	return n
}

func (n *NumberType) Min(val float64) *NumberType {
	n.min = &val
	return n
}

func (n *NumberType) Max(val float64) *NumberType {
	n.max = &val
	return n
}

// Integer değerin tamsayı olmasını ister.
func (n *NumberType) Integer() *NumberType {
	n.isInteger = true
	return n
}

func (n *NumberType) Validate(field string, value any, result *validation.ValidationResult) {
	if !n.check(field, value, result) {
		return
	}

	fieldName := n.name(field)
	num, ok := toFloat(value)
	if !ok {
		result.AddError(field, fmt.Sprintf("%s alanı sayısal bir değer olmalıdır", fieldName))
		return
	}

	if n.isInteger && num != math.Trunc(num) {
		result.AddError(field, fmt.Sprintf("%s alanı tamsayı olmalıdır", fieldName))
	}
	if n.min != nil && num < *n.min {
		result.AddError(field, fmt.Sprintf("%s alanı %v değerinden küçük olamaz", fieldName, *n.min))
	}
	if n.max != nil && num > *n.max {
		result.AddError(field, fmt.Sprintf("%s alanı %v değerinden büyük olamaz", fieldName, *n.max))
	}
}

func toFloat(value any) (float64, bool) {
	rv := reflect.ValueOf(value)
	switch {
	case rv.CanInt():
		return float64(rv.Int()), true
	case rv.CanUint():
		return float64(rv.Uint()), true
	case rv.CanFloat():
		f := rv.Float()
		return f, !math.IsNaN(f)
	}
	return 0, false
}
