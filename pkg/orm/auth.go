package orm

// -----------------------------------------------------------------------------
// Authenticatable Capability
// -----------------------------------------------------------------------------
// Definition.Authenticatable ile işaretlenmiş modeller şifre ve ACL
// alanlarına sahiptir. Bu alanlar guarded'dır; toplu atama ile yazılamaz,
// sadece aşağıdaki ayrıcalıklı metodlar ile değiştirilir.
// -----------------------------------------------------------------------------

import (
	"slices"

	"github.com/biyonik/conduit-orm/pkg/database"
)

func (m *Model) authCapability() (*Auth, error) {
	if m.def.Auth == nil {
		return nil, database.NewValidationError(m.def.Table, "model is not authenticatable")
	}
	return m.def.Auth, nil
}

// SetPassword düz şifreyi hash'ler ve hashedPassword alanına yazar.
func (m *Model) SetPassword(plain string) error {
	a, err := m.authCapability()
	if err != nil {
		return err
	}
	if err := checkPassword(a, plain); err != nil {
		return err
	}
	hashed, err := a.Hasher.Hash(plain)
	if err != nil {
		return database.NewValidationError(FieldPassword, "%v", err)
	}
	return m.ForceSet(FieldHashedPassword, hashed)
}

// CheckPassword düz şifrenin kayıtlı hash ile eşleşip eşleşmediğini söyler.
func (m *Model) CheckPassword(plain string) bool {
	a, err := m.authCapability()
	if err != nil {
		return false
	}
	return a.Hasher.Check(plain, m.GetString(FieldHashedPassword))
}

// SetRoles aclRoles alanını yazar.
func (m *Model) SetRoles(roles ...string) error {
	if _, err := m.authCapability(); err != nil {
		return err
	}
	return m.ForceSet(FieldACLRoles, roles)
}

// SetGroups aclGroups alanını yazar.
func (m *Model) SetGroups(groups ...string) error {
	if _, err := m.authCapability(); err != nil {
		return err
	}
	return m.ForceSet(FieldACLGroups, groups)
}

// Roles aclRoles alanını string listesi olarak döner.
func (m *Model) Roles() []string {
	return stringList(m.Get(FieldACLRoles))
}

// Groups aclGroups alanını string listesi olarak döner.
func (m *Model) Groups() []string {
	return stringList(m.Get(FieldACLGroups))
}

// HasRole verilen rollerin tamamı modelde varsa true döner.
func (m *Model) HasRole(roles ...string) bool {
	current := m.Roles()
	if len(current) == 0 || len(roles) == 0 {
		return false
	}
	for _, r := range roles {
		if !slices.Contains(current, r) {
			return false
		}
	}
	return true
}

func stringList(v any) []string {
	items, _ := v.([]any)
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
