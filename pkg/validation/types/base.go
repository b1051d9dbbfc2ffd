// Package types, validation.Type implementasyonlarını içerir: String,
// Number, Boolean, Date, UUID, Array ve Object. Her tip akıcı (fluent)
// metodlarla yapılandırılır.
package types

import (
	"fmt"

	"github.com/biyonik/conduit-orm/pkg/validation"
)

// BaseType tüm tiplerin gömdüğü ortak kısımdır: zorunluluk, etiket,
// varsayılan değer ve dönüşümler.
type BaseType struct {
	isRequired      bool
	label           string
	defaultValue    any
	transformations []func(any) (any, error)
}

func (b *BaseType) SetRequired() {
	b.isRequired = true
}

// SetLabel hata mesajlarında alan adı yerine kullanılacak ismi atar.
func (b *BaseType) SetLabel(label string) {
	b.label = label
}

// SetDefault değer nil olduğunda kullanılacak değeri atar.
func (b *BaseType) SetDefault(value any) {
	b.defaultValue = value
}

// AddTransform değere uygulanacak bir dönüşüm ekler.
func (b *BaseType) AddTransform(fn func(any) (any, error)) {
	b.transformations = append(b.transformations, fn)
}

// Transform varsayılan değeri ve dönüşümleri sırasıyla uygular.
func (b *BaseType) Transform(value any) (any, error) {
	if value == nil && b.defaultValue != nil {
		value = b.defaultValue
	}
	if value == nil {
		return nil, nil
	}

	var err error
	for _, fn := range b.transformations {
		value, err = fn(value)
		if err != nil {
			return nil, err
		}
	}
	return value, nil
}

// Validate sadece zorunluluk kontrolü yapar.
func (b *BaseType) Validate(field string, value any, result *validation.ValidationResult) {
	b.check(field, value, result)
}

// check zorunluluğu doğrular ve tipe özel kuralların çalışıp
// çalışmayacağını döner: değer nil ise false.
func (b *BaseType) check(field string, value any, result *validation.ValidationResult) bool {
	if value == nil {
		if b.isRequired {
			result.AddError(field, fmt.Sprintf("%s alanı zorunludur", b.name(field)))
		}
		return false
	}
	if str, ok := value.(string); ok && str == "" && b.isRequired {
		result.AddError(field, fmt.Sprintf("%s alanı zorunludur", b.name(field)))
		return false
	}
	return true
}

func (b *BaseType) name(field string) string {
	if b.label != "" {
		return b.label
	}
	return field
}
