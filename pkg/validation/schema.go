package validation

import (
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
)

type conditionalRule struct {
	field    string
	expected any
	callback func() Schema
}

// ValidationSchema Schema'nın varsayılan implementasyonudur.
type ValidationSchema struct {
	shape            map[string]Type
	crossValidators  []func(data map[string]any) error
	conditionalRules []conditionalRule
}

// Make boş bir şema üretir.
func Make() *ValidationSchema {
	return &ValidationSchema{shape: make(map[string]Type)}
}

// Shape alan -> Type eşlemesini ayarlar.
func (vs *ValidationSchema) Shape(shape map[string]Type) Schema {
	vs.shape = shape
	return vs
}

// CrossValidate alanlar arası bir doğrulama ekler. Sadece alan hataları
// yoksa çalışır; FieldError dönerse hata o alana yazılır.
func (vs *ValidationSchema) CrossValidate(fn func(data map[string]any) error) Schema {
	vs.crossValidators = append(vs.crossValidators, fn)
	return vs
}

func (vs *ValidationSchema) When(field string, expected any, callback func() Schema) Schema {
	vs.conditionalRules = append(vs.conditionalRules, conditionalRule{
		field:    field,
		expected: expected,
		callback: callback,
	})
	return vs
}

// Fields şemadaki alanları sıralı döner.
func (vs *ValidationSchema) Fields() []string {
	return slices.Sorted(maps.Keys(vs.shape))
}

// Validate sırasıyla dönüştürür, doğrular, koşullu alt şemaları uygular ve
// cross validator'ları çalıştırır.
//
// ValidData, girdide bulunan ya da dönüşüm sonunda nil olmayan (örneğin
// varsayılan değer almış) alanları içerir.
func (vs *ValidationSchema) Validate(data map[string]any) *ValidationResult {
	return vs.run(data, false)
}

func (vs *ValidationSchema) ValidatePartial(data map[string]any) *ValidationResult {
	return vs.run(data, true)
}

func (vs *ValidationSchema) run(data map[string]any, partial bool) *ValidationResult {
	result := NewResult()
	transformed := make(map[string]any)
	failed := make(map[string]bool)

	fields := vs.Fields()
	if partial {
		fields = slices.DeleteFunc(fields, func(f string) bool {
			_, present := data[f]
			return !present
		})
	}

	// 1. dönüşüm
	for _, field := range fields {
		value, err := vs.shape[field].Transform(data[field])
		if err != nil {
			result.AddError(field, fmt.Sprintf("Dönüşüm hatası: %s", err.Error()))
			failed[field] = true
			continue
		}
		if _, present := data[field]; present || value != nil {
			transformed[field] = value
		}
	}

	// 2. alan kuralları
	for _, field := range fields {
		if failed[field] {
			continue
		}
		vs.shape[field].Validate(field, transformed[field], result)
	}

	merged := maps.Clone(data)
	if merged == nil {
		merged = make(map[string]any)
	}
	maps.Copy(merged, transformed)

	// 3. koşullu alt şemalar
	for _, rule := range vs.conditionalRules {
		value, present := merged[rule.field]
		if !present || !reflect.DeepEqual(value, rule.expected) {
			continue
		}
		sub := rule.callback()
		var subResult *ValidationResult
		if partial {
			subResult = sub.ValidatePartial(merged)
		} else {
			subResult = sub.Validate(merged)
		}
		for field, messages := range subResult.Errors() {
			for _, msg := range messages {
				result.AddError(field, msg)
			}
		}
		maps.Copy(transformed, subResult.ValidData())
		maps.Copy(merged, subResult.ValidData())
	}

	// 4. alanlar arası
	if !partial && !result.HasErrors() {
		for _, fn := range vs.crossValidators {
			if err := fn(merged); err != nil {
				var fe *FieldError
				if errors.As(err, &fe) {
					result.AddError(fe.Field, fe.Message)
				} else {
					result.AddError(CrossField, err.Error())
				}
			}
		}
	}

	if !result.HasErrors() {
		result.SetValidData(transformed)
	}
	return result
}
