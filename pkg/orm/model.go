// -----------------------------------------------------------------------------
// Model
// -----------------------------------------------------------------------------
// Model, Definition'a bağlı tipli bir attribute kabıdır. Her yazma ve okuma
// cast'ten geçer; bu yüzden JSON olarak saklanan object kolonları bile
// modelde native map olarak görünür.
//
// İki atama yolu vardır:
//   - Fill / NewModel: toplu atama, guarded alanlar sessizce atlanır
//   - Set:             tek alan, guarded alan ValidationError döner
//   - ForceSet:        ayrıcalıklı yol, guarded kontrolü yapılmaz
//
// İlişkiler Attr ile okunur: eager load edilmişse bellekteki değer, değilse
// modeli üreten builder'ın bağlantısı (ve varsa transaction'ı) üzerinden
// tembel olarak çözülür ve memoize edilir.
// -----------------------------------------------------------------------------

package orm

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/biyonik/conduit-orm/pkg/database"
)

// Model tek bir kaydın attribute'larını taşır.
type Model struct {
	def        *Definition
	attributes map[string]any
	exists     bool

	mu        sync.Mutex
	relations map[string]any
	origin    *Builder
}

// NewModel boş bir model üretir ve attrs'ı toplu atama ile doldurur.
//
// Örnek:
//
//	m, err := orm.NewModel(Employees, map[string]any{"name": "John", "age": 25})
func NewModel(def *Definition, attrs map[string]any) (*Model, error) {
	m := &Model{
		def:        def,
		attributes: make(map[string]any),
		relations:  make(map[string]any),
	}
	if err := m.Fill(attrs); err != nil {
		return nil, err
	}
	return m, nil
}

// hydrate adapter'dan gelen formatlanmış satırdan model üretir. Definition'da
// olup satırda olmayan alanlar nil olarak eklenir.
func hydrate(def *Definition, row database.Row, origin *Builder, relationPrefixes map[string]*Definition) (*Model, error) {
	m := &Model{
		def:        def,
		attributes: make(map[string]any, len(def.Fields)),
		relations:  make(map[string]any),
		origin:     origin,
		exists:     true,
	}
	for _, field := range def.Fields {
		m.attributes[field] = nil
	}

	for key, value := range row {
		if related, ok := relationPrefixes[key]; ok {
			nested, _ := value.(database.Row)
			if nested == nil {
				m.relations[key] = nil
				continue
			}
			child, err := hydrate(related, nested, origin, nil)
			if err != nil {
				return nil, err
			}
			m.relations[key] = child
			continue
		}
		if err := m.write(key, value); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Definition modelin sözleşmesidir.
func (m *Model) Definition() *Definition { return m.def }

// Exists model veritabanından okunmuş veya kaydedilmişse true döner.
func (m *Model) Exists() bool { return m.exists }

// ID birincil anahtar değeridir.
func (m *Model) ID() any {
	return m.attributes[m.def.primaryKey()]
}

// Get attribute değerini döner; tanımsız alan için nil.
func (m *Model) Get(name string) any {
	return m.attributes[name]
}

// GetString string attribute'u döner; değer string değilse boş string.
func (m *Model) GetString(name string) string {
	s, _ := m.attributes[name].(string)
	return s
}

// GetFloat number cast'li attribute'u döner.
func (m *Model) GetFloat(name string) float64 {
	f, _ := m.attributes[name].(float64)
	return f
}

// Has attribute'un modelde (nil dahil) bulunup bulunmadığını söyler.
func (m *Model) Has(name string) bool {
	_, ok := m.attributes[name]
	return ok
}

// Set tek bir attribute yazar. Guarded alanlar reddedilir.
func (m *Model) Set(name string, value any) error {
	if m.def.IsGuarded(name) {
		return database.NewValidationError(name, "attribute is guarded and cannot be mass assigned")
	}
	return m.write(name, value)
}

// ForceSet guarded kontrolü yapmadan yazar. Hash'lenmiş şifre gibi
// ORM'in kendi ürettiği değerler için kullanılır.
func (m *Model) ForceSet(name string, value any) error {
	return m.write(name, value)
}

// Fill toplu atama yapar; guarded alanlar atlanır.
func (m *Model) Fill(attrs map[string]any) error {
	for _, name := range slices.Sorted(maps.Keys(attrs)) {
		if m.def.IsGuarded(name) {
			continue
		}
		if err := m.write(name, attrs[name]); err != nil {
			return err
		}
	}
	return nil
}

func (m *Model) write(name string, value any) error {
	if value != nil {
		if cast, ok := m.def.CastFor(name); ok {
			casted, err := castValue(name, cast, value)
			if err != nil {
				return err
			}
			value = casted
		}
	}
	m.attributes[name] = value
	return nil
}

// Attributes attribute'ların kopyasını döner.
func (m *Model) Attributes() map[string]any {
	return maps.Clone(m.attributes)
}

// Keys attribute adlarını Definition.Fields sırasıyla döner. Tanımda
// olmayan attribute'lar sona, alfabetik olarak eklenir.
func (m *Model) Keys() []string {
	keys := make([]string, 0, len(m.attributes))
	for _, field := range m.def.Fields {
		if _, ok := m.attributes[field]; ok {
			keys = append(keys, field)
		}
	}
	var extra []string
	for name := range m.attributes {
		if !slices.Contains(m.def.Fields, name) {
			extra = append(extra, name)
		}
	}
	slices.Sort(extra)
	return append(keys, extra...)
}

// Relation eager veya join ile yüklenmiş ilişkiyi döner. İkinci değer
// ilişkinin çözülmüş olup olmadığını söyler.
func (m *Model) Relation(name string) (any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.relations[name]
	return v, ok
}

func (m *Model) setRelation(name string, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.relations[name] = value
}

// Attr, name bir ilişki ise ilişkiyi (gerekirse tembel yükleyerek) döner,
// değilse attribute değerini döner.
//
// Döndürür:
//   - belongsTo: *Model veya nil
//   - hasMany:   *Collection (eşleşme yoksa boş)
//   - join:      join alias'ı için *Model veya nil
func (m *Model) Attr(ctx context.Context, name string) (any, error) {
	if v, ok := m.Relation(name); ok {
		return v, nil
	}
	rel, ok := m.def.Relationship(name)
	if !ok {
		return m.Get(name), nil
	}
	if m.origin == nil {
		return nil, &database.ConnectionError{Connection: "", Err: fmt.Errorf("model %s was not loaded through a builder; relation %q cannot be resolved", m.def.Table, name)}
	}

	value, err := m.origin.resolveRelation(ctx, rel, m)
	if err != nil {
		return nil, err
	}
	m.setRelation(name, value)
	return value, nil
}

// One belongsTo ilişkisini döner.
func (m *Model) One(ctx context.Context, name string) (*Model, error) {
	v, err := m.Attr(ctx, name)
	if err != nil {
		return nil, err
	}
	related, _ := v.(*Model)
	return related, nil
}

// Many hasMany ilişkisini döner.
func (m *Model) Many(ctx context.Context, name string) (*Collection, error) {
	v, err := m.Attr(ctx, name)
	if err != nil {
		return nil, err
	}
	if c, ok := v.(*Collection); ok {
		return c, nil
	}
	return NewCollection(), nil
}

// ToMap attribute'ları ve çözülmüş ilişkileri tek bir map olarak döner.
func (m *Model) ToMap() map[string]any {
	out := maps.Clone(m.attributes)
	m.mu.Lock()
	defer m.mu.Unlock()
	for name, rel := range m.relations {
		switch r := rel.(type) {
		case *Model:
			out[name] = r.ToMap()
		case *Collection:
			out[name] = r.Maps()
		default:
			out[name] = nil
		}
	}
	return out
}

// Bind attribute'ları ve ilişkileri `db` tag'li struct'a yazar.
//
// Örnek:
//
//	var e struct {
//	    ID   string  `db:"id"`
//	    Name string  `db:"name"`
//	    Age  float64 `db:"age"`
//	}
//	err := model.Bind(&e)
func (m *Model) Bind(dest any) error {
	return database.BindRow(database.Row(m.ToMap()), dest)
}

// row, adapter'a yazılacak attribute'lardır.
func (m *Model) row() database.Row {
	return database.Row(maps.Clone(m.attributes))
}
