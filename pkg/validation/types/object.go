package types

import (
	"fmt"
	"maps"
	"slices"

	"github.com/biyonik/conduit-orm/pkg/validation"
)

// ObjectType map[string]any değerlerini doğrular. Shape verilirse iç
// alanlar "alan.iç" adıyla doğrulanır.
type ObjectType struct {
	BaseType
	shape map[string]validation.Type
}

func (o *ObjectType) Required() *ObjectType {
	o.SetRequired()
	return o
}

func (o *ObjectType) Label(label string) *ObjectType {
	o.SetLabel(label)
	return o
}

func (o *ObjectType) Shape(shape map[string]validation.Type) *ObjectType {
	o.shape = shape
	return o
}

func (o *ObjectType) Transform(value any) (any, error) {
	value, err := o.BaseType.Transform(value)
	if err != nil || value == nil {
		return value, err
	}

	obj, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("nesne (object) tipinde olmalıdır")
	}
	if len(o.shape) == 0 {
		return obj, nil
	}
	out := maps.Clone(obj)
	for key, t := range o.shape {
		v, err := t.Transform(obj[key])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		if _, present := obj[key]; present || v != nil {
			out[key] = v
		}
	}
	return out, nil
}

func (o *ObjectType) Validate(field string, value any, result *validation.ValidationResult) {
	if !o.check(field, value, result) {
		return
	}

	obj, ok := value.(map[string]any)
	if !ok {
		result.AddError(field, fmt.Sprintf("%s alanı nesne (object) tipinde olmalıdır", o.name(field)))
		return
	}
	for _, key := range slices.Sorted(maps.Keys(o.shape)) {
		o.shape[key].Validate(field+"."+key, obj[key], result)
	}
}
