package orm

// Collection, sorgu sonucu dönen modellerin sıralı listesidir.
type Collection struct {
	items []*Model
}

// NewCollection verilen modellerden koleksiyon üretir.
func NewCollection(items ...*Model) *Collection {
	if items == nil {
		items = []*Model{}
	}
	return &Collection{items: items}
}

func (c *Collection) Count() int { return len(c.items) }

// Items alttaki slice'ın kopyasını döner.
func (c *Collection) Items() []*Model {
	return append([]*Model(nil), c.items...)
}

// First ilk modeli döner; koleksiyon boşsa nil.
func (c *Collection) First() *Model {
	if len(c.items) == 0 {
		return nil
	}
	return c.items[0]
}

// Last son modeli döner; koleksiyon boşsa nil.
func (c *Collection) Last() *Model {
	if len(c.items) == 0 {
		return nil
	}
	return c.items[len(c.items)-1]
}

// At i. modeli döner; aralık dışında nil.
func (c *Collection) At(i int) *Model {
	if i < 0 || i >= len(c.items) {
		return nil
	}
	return c.items[i]
}

// Filter koşulu sağlayan modellerden yeni koleksiyon üretir.
func (c *Collection) Filter(fn func(*Model) bool) *Collection {
	out := make([]*Model, 0, len(c.items))
	for _, m := range c.items {
		if fn(m) {
			out = append(out, m)
		}
	}
	return NewCollection(out...)
}

// Find koşulu sağlayan ilk modeli döner.
func (c *Collection) Find(fn func(*Model) bool) *Model {
	for _, m := range c.items {
		if fn(m) {
			return m
		}
	}
	return nil
}

// Pluck her modelden tek bir attribute toplar.
func (c *Collection) Pluck(name string) []any {
	out := make([]any, len(c.items))
	for i, m := range c.items {
		out[i] = m.Get(name)
	}
	return out
}

// Maps her modeli ToMap ile map'e çevirir.
func (c *Collection) Maps() []map[string]any {
	out := make([]map[string]any, len(c.items))
	for i, m := range c.items {
		out[i] = m.ToMap()
	}
	return out
}
