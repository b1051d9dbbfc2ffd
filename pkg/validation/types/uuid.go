package types

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/biyonik/conduit-orm/pkg/validation"
)

// UuidType UUID string'lerini doğrular.
type UuidType struct {
	BaseType
	version int // 0 = herhangi bir versiyon
}

func (u *UuidType) Required() *UuidType {
	u.SetRequired()
	return u
}

func (u *UuidType) Label(label string) *UuidType {
	u.SetLabel(label)
	return u
}

// Version belirli bir UUID versiyonunu zorunlu kılar.
func (u *UuidType) Version(v int) *UuidType {
	if v >= 0 && v <= 8 {
		u.version = v
	}
	return u
}

func (u *UuidType) Validate(field string, value any, result *validation.ValidationResult) {
	if !u.check(field, value, result) {
		return
	}

	fieldName := u.name(field)
	str, ok := value.(string)
	if !ok {
		result.AddError(field, fmt.Sprintf("%s alanı metin tipinde olmalıdır", fieldName))
		return
	}

	versionText := ""
	if u.version > 0 {
		versionText = fmt.Sprintf(" (v%d)", u.version)
	}
	// uuid.Parse urn ve süslü parantezli formları da kabul eder; sadece
	// 36 karakterlik kanonik form geçerlidir.
	id, err := uuid.Parse(str)
	if err != nil || len(str) != 36 || (u.version > 0 && int(id.Version()) != u.version) {
		result.AddError(field, fmt.Sprintf("%s alanı geçerli bir UUID%s olmalıdır", fieldName, versionText))
	}
}
