// -----------------------------------------------------------------------------
// Validation Errors
// -----------------------------------------------------------------------------

package validation

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// CrossField, cross validator hatalarının eklendiği alan adıdır.
const CrossField = "_cross_validation"

// FieldError tek bir alan için doğrulama hatasıdır. Cross validator'lar
// hatayı bir alana bağlamak için bunu döner.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewFieldError yeni bir FieldError üretir.
//
// Örnek:
//
//	return validation.NewFieldError("endsAt", "bitiş başlangıçtan önce olamaz")
func NewFieldError(field, message string) error {
	return &FieldError{Field: field, Message: message}
}

// Errors, doğrulama başarısız olduğunda dönen alan -> mesajlar haritasıdır.
type Errors map[string][]string

// Fields hatalı alanları sıralı döner.
func (e Errors) Fields() []string {
	return slices.Sorted(maps.Keys(e))
}

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, field := range e.Fields() {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(e[field], ", ")))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// AsErrors err zincirinde bir Errors varsa onu döner.
func AsErrors(err error) (Errors, bool) {
	var verr Errors
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}
