package types

import (
	"fmt"

	"github.com/biyonik/conduit-orm/pkg/validation"
)

// BooleanType bool değerleri doğrular.
type BooleanType struct {
	BaseType
	mustBe *bool
}

func (b *BooleanType) Required() *BooleanType {
	b.SetRequired()
	return b
}

func (b *BooleanType) Label(label string) *BooleanType {
	b.SetLabel(label)
	return b
}

func (b *BooleanType) Default(value bool) *BooleanType {
	b.SetDefault(value)
	return b
}

// Accepted değerin true olmasını ister.
func (b *BooleanType) Accepted() *BooleanType {
	v := true
	b.mustBe = &v
	return b
}

func (b *BooleanType) Validate(field string, value any, result *validation.ValidationResult) {
	if !b.check(field, value, result) {
		return
	}
	v, ok := value.(bool)
	if !ok {
		result.AddError(field, fmt.Sprintf("%s alanı boolean olmalıdır", b.name(field)))
		return
	}
	if b.mustBe != nil && v != *b.mustBe {
		result.AddError(field, fmt.Sprintf("%s alanı kabul edilmelidir", b.name(field)))
	}
}
