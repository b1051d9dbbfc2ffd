// -----------------------------------------------------------------------------
// Document Stores
// -----------------------------------------------------------------------------
// DocumentStore, doküman adapter'ının altındaki depolama katmanıdır. Her
// collection "id" anahtarıyla adreslenen dokümanlardan oluşur ve ekleme
// sırasını korur. Sorgu değerlendirmesi (filtre, sıralama, aggregate, join
// emülasyonu) adapter tarafında yapılır; store sadece okur ve yazar.
//
// İki implementasyon vardır:
//   - RedisStore:  go-redis üzerinde, collection başına hash + sıra için zset
//   - MemoryStore: process içi, testler ve geçici bağlantılar için
// -----------------------------------------------------------------------------

package database

import (
	"context"
	"fmt"
	"sync"
)

// DocumentStore doküman collection'larını okur ve yazar.
type DocumentStore interface {
	Ping(ctx context.Context) error
	Close() error

	CreateCollection(ctx context.Context, name string) error
	DropCollection(ctx context.Context, name string) error
	CollectionExists(ctx context.Context, name string) (bool, error)
	Collections(ctx context.Context) ([]string, error)

	// All collection'daki dokümanları ekleme sırasıyla döner.
	All(ctx context.Context, collection string) ([]Row, error)
	// Put dokümanları "id" anahtarına göre ekler veya değiştirir.
	Put(ctx context.Context, collection string, docs []Row) error
	// Delete verilen id'lere sahip dokümanları siler.
	Delete(ctx context.Context, collection string, ids []string) error
}

// DocumentID dokümanın "id" alanını string olarak döner.
func DocumentID(doc Row) (string, bool) {
	v, ok := doc["id"]
	if !ok || v == nil {
		return "", false
	}
	if s, ok := v.(string); ok {
		return s, s != ""
	}
	return fmt.Sprint(v), true
}

// MemoryStore, process içi DocumentStore'dur. Okunan ve yazılan dokümanlar
// derin kopyalanır; çağıranın map'leri store'u değiştiremez.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]*memoryCollection
}

type memoryCollection struct {
	order []string
	docs  map[string]Row
}

// NewMemoryStore boş bir MemoryStore üretir.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]*memoryCollection)}
}

func (s *MemoryStore) Ping(context.Context) error { return nil }
func (s *MemoryStore) Close() error               { return nil }

func (s *MemoryStore) CreateCollection(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collection(name)
	return nil
}

func (s *MemoryStore) DropCollection(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.collections, name)
	return nil
}

func (s *MemoryStore) CollectionExists(_ context.Context, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.collections[name]
	return ok, nil
}

func (s *MemoryStore) Collections(context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.collections))
	for name := range s.collections {
		names = append(names, name)
	}
	return names, nil
}

func (s *MemoryStore) All(_ context.Context, collection string) ([]Row, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[collection]
	if !ok {
		return []Row{}, nil
	}
	out := make([]Row, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, cloneRow(c.docs[id]))
	}
	return out, nil
}

func (s *MemoryStore) Put(_ context.Context, collection string, docs []Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.collection(collection)
	for _, doc := range docs {
		id, ok := DocumentID(doc)
		if !ok {
			return NewValidationError("id", "document has no id")
		}
		if _, exists := c.docs[id]; !exists {
			c.order = append(c.order, id)
		}
		c.docs[id] = cloneRow(doc)
	}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, collection string, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[collection]
	if !ok || len(ids) == 0 {
		return nil
	}
	remove := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		remove[id] = struct{}{}
		delete(c.docs, id)
	}
	kept := c.order[:0]
	for _, id := range c.order {
		if _, gone := remove[id]; !gone {
			kept = append(kept, id)
		}
	}
	c.order = kept
	return nil
}

// collection mu kilitliyken çağrılmalıdır.
func (s *MemoryStore) collection(name string) *memoryCollection {
	c, ok := s.collections[name]
	if !ok {
		c = &memoryCollection{docs: make(map[string]Row)}
		s.collections[name] = c
	}
	return c
}
