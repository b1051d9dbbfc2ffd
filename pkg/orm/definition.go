// -----------------------------------------------------------------------------
// Model Definition
// -----------------------------------------------------------------------------
// Definition, bir modelin sorgu katmanına verdiği tek "şema"dır: tablo adı,
// alan listesi, cast haritası, guarded alanlar ve ilişkiler. Veritabanı
// kataloğu hiçbir zaman okunmaz.
//
// Kalıtım yerine kompozisyon kullanılır; timestamp ve authenticatable
// yetenekleri Definition'a yapılandırma ile eklenir:
//
//	var Departments = orm.Define("departments", "id", "deptName", "createdAt", "updatedAt").
//	    WithTimestamps("createdAt", "updatedAt")
//
//	var Employees = orm.Define("employees", "id", "deptId", "name", "age").
//	    Cast("age", orm.CastNumber).
//	    BelongsTo("department", Departments, "deptId", "id")
//
//	func init() {
//	    Departments.HasMany("employees", Employees, "id", "deptId")
//	}
// -----------------------------------------------------------------------------

package orm

import (
	"slices"

	"github.com/biyonik/conduit-orm/pkg/auth"
	"github.com/biyonik/conduit-orm/pkg/validation"
)

// CastType, bir attribute'un bellekteki tipini belirler.
type CastType string

const (
	CastString  CastType = "string"
	CastNumber  CastType = "number"
	CastBoolean CastType = "boolean"
	CastDate    CastType = "date"
	CastArray   CastType = "array"
	CastObject  CastType = "object"
)

// RelationKind ilişki tipidir.
type RelationKind string

const (
	RelationBelongsTo RelationKind = "belongsTo"
	RelationHasMany   RelationKind = "hasMany"
)

// Relationship, iki model arasındaki ilişkidir. İlişkili satırlar
// related[ForeignKey] == parent[LocalKey] koşuluyla bulunur.
type Relationship struct {
	Name       string
	Kind       RelationKind
	Related    *Definition
	LocalKey   string
	ForeignKey string
}

// Timestamps, builder'ın insert/update sırasında doldurduğu alanlardır.
// Boş alan adı o timestamp'i devre dışı bırakır.
type Timestamps struct {
	CreatedAt string
	UpdatedAt string
}

// Auth, authenticatable yeteneğinin ayarlarıdır. PasswordPolicy nil değilse
// SetPassword düz şifreyi hash'lemeden önce onunla doğrular.
type Auth struct {
	Hasher         *auth.Hasher
	PasswordPolicy validation.Type
}

// Authenticatable alan adları.
const (
	FieldEmail          = "email"
	FieldPassword       = "password"
	FieldHashedPassword = "hashedPassword"
	FieldACLRoles       = "aclRoles"
	FieldACLGroups      = "aclGroups"
)

// Definition bir modelin sözleşmesidir.
type Definition struct {
	Table      string
	PrimaryKey string
	// Fields modelin sabit şeklidir; seçilmeyen alanlar nil olarak bulunur.
	Fields        []string
	Casts         map[string]CastType
	Guarded       []string
	Relationships map[string]Relationship
	Timestamps    *Timestamps
	Auth          *Auth
	// Rules, yazmadan önce attribute'lara uygulanan kurallardır. Insert tüm
	// şemayı, Update ve Save sadece yazılan alanları doğrular.
	Rules validation.Schema
}

// Define yeni bir Definition üretir. Birincil anahtar "id"dir.
func Define(table string, fields ...string) *Definition {
	return &Definition{
		Table:         table,
		PrimaryKey:    "id",
		Fields:        fields,
		Casts:         make(map[string]CastType),
		Relationships: make(map[string]Relationship),
	}
}

// Cast bir alan için cast tanımlar.
func (d *Definition) Cast(field string, cast CastType) *Definition {
	if d.Casts == nil {
		d.Casts = make(map[string]CastType)
	}
	d.Casts[field] = cast
	return d
}

// Guard alanları toplu atamadan hariç tutar.
func (d *Definition) Guard(fields ...string) *Definition {
	for _, f := range fields {
		if !slices.Contains(d.Guarded, f) {
			d.Guarded = append(d.Guarded, f)
		}
	}
	return d
}

// WithTimestamps created/updated alanlarını tanımlar ve date cast'i ekler.
func (d *Definition) WithTimestamps(createdAt, updatedAt string) *Definition {
	d.Timestamps = &Timestamps{CreatedAt: createdAt, UpdatedAt: updatedAt}
	for _, f := range []string{createdAt, updatedAt} {
		if f == "" {
			continue
		}
		d.addField(f)
		d.Cast(f, CastDate)
	}
	return d
}

// Authenticatable email, şifre ve ACL alanlarını ekler. Şifre ve ACL
// alanları guarded'dır; sadece Model.SetPassword ve Model.ForceSet ile
// yazılabilir.
func (d *Definition) Authenticatable(hasher *auth.Hasher) *Definition {
	if hasher == nil {
		hasher = auth.NewHasher(auth.DefaultCost)
	}
	if d.Auth == nil {
		d.Auth = &Auth{}
	}
	d.Auth.Hasher = hasher
	for _, f := range []string{FieldEmail, FieldHashedPassword, FieldACLRoles, FieldACLGroups} {
		d.addField(f)
	}
	d.Cast(FieldEmail, CastString)
	d.Cast(FieldACLRoles, CastArray)
	d.Cast(FieldACLGroups, CastArray)
	return d.Guard(FieldHashedPassword, FieldPassword, FieldACLRoles, FieldACLGroups)
}

// WithRules yazma kurallarını tanımlar.
//
// Örnek:
//
//	People.WithRules(validation.Make().Shape(map[string]validation.Type{
//	    "name": types.String().Required().Trim(),
//	    "age":  types.Number().Min(0),
//	}))
func (d *Definition) WithRules(rules validation.Schema) *Definition {
	d.Rules = rules
	return d
}

// WithPasswordPolicy SetPassword için parola kuralını ayarlar. Authenticatable
// çağrılmadan önce kullanılırsa varsayılan hasher ile yetenek açılır.
func (d *Definition) WithPasswordPolicy(policy validation.Type) *Definition {
	if d.Auth == nil {
		d.Authenticatable(nil)
	}
	d.Auth.PasswordPolicy = policy
	return d
}

// BelongsTo, parent[localKey] ile related[foreignKey] eşleşen tek satırlık
// ilişki tanımlar.
func (d *Definition) BelongsTo(name string, related *Definition, localKey, foreignKey string) *Definition {
	return d.relate(Relationship{Name: name, Kind: RelationBelongsTo, Related: related, LocalKey: localKey, ForeignKey: foreignKey})
}

// HasMany, related[foreignKey] == parent[localKey] olan satırların
// koleksiyonunu tanımlar.
func (d *Definition) HasMany(name string, related *Definition, localKey, foreignKey string) *Definition {
	return d.relate(Relationship{Name: name, Kind: RelationHasMany, Related: related, LocalKey: localKey, ForeignKey: foreignKey})
}

func (d *Definition) relate(rel Relationship) *Definition {
	if d.Relationships == nil {
		d.Relationships = make(map[string]Relationship)
	}
	d.Relationships[rel.Name] = rel
	return d
}

// Relationship adıyla bir ilişkiyi döner.
func (d *Definition) Relationship(name string) (Relationship, bool) {
	rel, ok := d.Relationships[name]
	return rel, ok
}

// IsGuarded alanın toplu atamadan hariç olup olmadığını söyler.
func (d *Definition) IsGuarded(field string) bool {
	return slices.Contains(d.Guarded, field)
}

// CastFor alanın cast tipini döner.
func (d *Definition) CastFor(field string) (CastType, bool) {
	c, ok := d.Casts[field]
	return c, ok
}

// JSONColumns, SQL adapter'larının JSON olarak sakladığı alanlardır.
func (d *Definition) JSONColumns() []string {
	var cols []string
	for field, cast := range d.Casts {
		if cast == CastArray || cast == CastObject {
			cols = append(cols, field)
		}
	}
	slices.Sort(cols)
	return cols
}

func (d *Definition) primaryKey() string {
	if d.PrimaryKey == "" {
		return "id"
	}
	return d.PrimaryKey
}

func (d *Definition) addField(field string) {
	if !slices.Contains(d.Fields, field) {
		d.Fields = append(d.Fields, field)
	}
}
