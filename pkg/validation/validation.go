// Package validation, model attribute'larının yazılmadan önce doğrulanmasını
// sağlar. Bir Schema alan adlarını Type'lara eşler; her Type önce değeri
// dönüştürür (trim, varsayılan değer, tarih parse) sonra kurallarını
// uygular.
//
// Örnek:
//
//	rules := validation.Make().Shape(map[string]validation.Type{
//	    "name":  types.String().Required().Trim().Max(64),
//	    "age":   types.Number().Min(0).Integer(),
//	    "email": types.String().Email(),
//	})
//	result := rules.Validate(attrs)
//	if err := result.Err(); err != nil {
//	    return err
//	}
package validation

import (
	"maps"
)

// ValidationResult bir doğrulama işleminin sonucudur: alan bazlı hatalar ve
// dönüştürülmüş veri.
type ValidationResult struct {
	errors    map[string][]string
	validData map[string]any
}

// NewResult boş bir sonuç üretir.
func NewResult() *ValidationResult {
	return &ValidationResult{
		errors:    make(map[string][]string),
		validData: make(map[string]any),
	}
}

// AddError alan için bir hata mesajı ekler.
func (r *ValidationResult) AddError(field, message string) {
	r.errors[field] = append(r.errors[field], message)
}

// HasErrors en az bir hata varsa true döner.
func (r *ValidationResult) HasErrors() bool {
	return len(r.errors) > 0
}

// HasFieldErrors alan için hata eklenmişse true döner.
func (r *ValidationResult) HasFieldErrors(field string) bool {
	return len(r.errors[field]) > 0
}

// Errors alan bazlı hata mesajlarını döner.
func (r *ValidationResult) Errors() map[string][]string {
	return r.errors
}

// ValidData doğrulanmış veriyi döner. Hata varsa boştur.
func (r *ValidationResult) ValidData() map[string]any {
	return r.validData
}

// SetValidData doğrulanmış veriyi ayarlar.
func (r *ValidationResult) SetValidData(data map[string]any) {
	r.validData = data
}

// Err hata yoksa nil, varsa Errors döner.
func (r *ValidationResult) Err() error {
	if !r.HasErrors() {
		return nil
	}
	return Errors(maps.Clone(r.errors))
}

// --- Arayüzler ---

// Type tek bir alanın dönüşüm ve doğrulama kurallarıdır.
type Type interface {
	// Transform doğrulamadan önce değeri temizler veya dönüştürür.
	Transform(value any) (any, error)

	// Validate dönüştürülmüş değeri doğrular; hatalar result'a eklenir.
	Validate(field string, value any, result *ValidationResult)
}

// Schema bir veri haritasının tamamını doğrular.
type Schema interface {
	// Validate şemadaki her alanı doğrular. Eksik alanlar nil kabul edilir.
	Validate(data map[string]any) *ValidationResult

	// ValidatePartial sadece data'da bulunan alanları doğrular. Kısmi
	// güncellemeler için kullanılır; cross validator'lar çalışmaz.
	ValidatePartial(data map[string]any) *ValidationResult

	Shape(shape map[string]Type) Schema
	CrossValidate(fn func(data map[string]any) error) Schema

	// When, field'ın değeri expected'a eşitse callback'in döndürdüğü alt
	// şemayı da uygular.
	When(field string, expected any, callback func() Schema) Schema
}
