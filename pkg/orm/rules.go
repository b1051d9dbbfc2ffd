package orm

import (
	"github.com/biyonik/conduit-orm/pkg/database"
	"github.com/biyonik/conduit-orm/pkg/validation"
)

// applyRules modelin attribute'larını Definition.Rules ile doğrular ve
// dönüştürülmüş değerleri (trim, varsayılan) modele geri yazar. partial
// sadece mevcut attribute'ları doğrular.
func applyRules(m *Model, partial bool) error {
	rules := m.def.Rules
	if rules == nil {
		return nil
	}

	attrs := m.Attributes()
	var result *validation.ValidationResult
	if partial {
		result = rules.ValidatePartial(attrs)
	} else {
		result = rules.Validate(attrs)
	}
	if err := result.Err(); err != nil {
		return rulesError(m.def.Table, err)
	}

	for name, value := range result.ValidData() {
		if err := m.write(name, value); err != nil {
			return err
		}
	}
	return nil
}

// checkPassword düz şifreyi parola politikasıyla doğrular.
func checkPassword(a *Auth, plain string) error {
	if a.PasswordPolicy == nil {
		return nil
	}
	value, err := a.PasswordPolicy.Transform(plain)
	if err != nil {
		return database.NewValidationError(FieldPassword, "%v", err)
	}
	result := validation.NewResult()
	a.PasswordPolicy.Validate(FieldPassword, value, result)
	if err := result.Err(); err != nil {
		return rulesError(FieldPassword, err)
	}
	return nil
}

func rulesError(field string, err error) error {
	return &database.ValidationError{Field: field, Message: err.Error(), Err: err}
}
