package types

import (
	"fmt"
	"time"

	"github.com/biyonik/conduit-orm/pkg/validation"
)

// DateType tarihleri doğrular. String değerler Format ile parse edilir;
// time.Time olduğu gibi kabul edilir.
type DateType struct {
	BaseType
	format  string
	minDate *time.Time
	maxDate *time.Time
}

func (d *DateType) Required() *DateType {
	d.SetRequired()
	return d
}

func (d *DateType) Label(label string) *DateType {
	d.SetLabel(label)
	return d
}

// Format string değerler için Go layout'unu belirler. Varsayılan RFC3339.
func (d *DateType) Format(layout string) *DateType {
	d.format = layout
	return d
}

// After tarihin t'den önce olmamasını ister.
func (d *DateType) After(t time.Time) *DateType {
	d.minDate = &t
	return d
}

// Before tarihin t'den sonra olmamasını ister.
func (d *DateType) Before(t time.Time) *DateType {
	d.maxDate = &t
	return d
}

// Transform string değeri time.Time'a çevirir.
func (d *DateType) Transform(value any) (any, error) {
	value, err := d.BaseType.Transform(value)
	if err != nil || value == nil {
		return value, err
	}

	switch v := value.(type) {
	case time.Time:
		return v, nil
	case string:
		parsed, err := time.Parse(d.format, v)
		if err != nil {
			return nil, fmt.Errorf("geçerli bir tarih formatı değil, beklenen: %s", d.format)
		}
		return parsed, nil
	}
	return nil, fmt.Errorf("tarih alanı string veya time.Time tipinde olmalıdır")
}

func (d *DateType) Validate(field string, value any, result *validation.ValidationResult) {
	if !d.check(field, value, result) {
		return
	}

	fieldName := d.name(field)
	t, ok := value.(time.Time)
	if !ok {
		result.AddError(field, fmt.Sprintf("%s alanı geçerli bir tarih olmalıdır", fieldName))
		return
	}
	if d.minDate != nil && t.Before(*d.minDate) {
		result.AddError(field, fmt.Sprintf("%s alanı %s tarihinden önce olamaz", fieldName, d.minDate.Format(d.format)))
	}
	if d.maxDate != nil && t.After(*d.maxDate) {
		result.AddError(field, fmt.Sprintf("%s alanı %s tarihinden sonra olamaz", fieldName, d.maxDate.Format(d.format)))
	}
}
