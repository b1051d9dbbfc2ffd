// -----------------------------------------------------------------------------
// Memory Cache Driver
// -----------------------------------------------------------------------------
// Tek process'lik, kalıcı olmayan cache. Testler ve tek instance çalışan
// servisler için uygundur.
//
// Süresi dolan entry'ler okunurken yok sayılır ve arka plandaki janitor
// goroutine'i tarafından periyodik olarak silinir. Janitor Close ile durur.
// -----------------------------------------------------------------------------

package cache

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultCleanupInterval janitor'ın varsayılan çalışma aralığıdır.
const DefaultCleanupInterval = 5 * time.Minute

type memoryEntry struct {
	value     []byte
	counter   int64
	expiresAt time.Time // zero value = süresiz
}

func (e *memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// MemoryCache in-memory Cache implementasyonudur.
type MemoryCache struct {
	mu     sync.RWMutex
	store  map[string]*memoryEntry
	logger *slog.Logger
	now    func() time.Time

	hits   atomic.Int64
	misses atomic.Int64

	stop     chan struct{}
	stopOnce sync.Once
}

// NewMemoryCache yeni bir MemoryCache üretir ve janitor'ı başlatır.
// cleanup <= 0 ise DefaultCleanupInterval kullanılır.
//
// Örnek:
//
//	c := cache.NewMemoryCache(logger, time.Minute)
//	defer c.Close()
func NewMemoryCache(logger *slog.Logger, cleanup time.Duration) *MemoryCache {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if cleanup <= 0 {
		cleanup = DefaultCleanupInterval
	}
	m := &MemoryCache{
		store:  make(map[string]*memoryEntry),
		logger: logger,
		now:    time.Now,
		stop:   make(chan struct{}),
	}
	go m.janitor(cleanup)
	return m
}

func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	entry, ok := m.store[key]
	m.mu.RUnlock()

	if !ok || entry.expired(m.now()) || entry.value == nil {
		m.misses.Add(1)
		return nil, false, nil
	}
	m.hits.Add(1)
	return slices.Clone(entry.value), true, nil
}

func (m *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	entry := &memoryEntry{value: slices.Clone(value)}
	if entry.value == nil {
		entry.value = []byte{}
	}
	if ttl > 0 {
		entry.expiresAt = m.now().Add(ttl)
	}

	m.mu.Lock()
	m.store[key] = entry
	m.mu.Unlock()
	return nil
}

func (m *MemoryCache) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.store, key)
	}
	return nil
}

// Increment sayacı artırır. Mevcut TTL korunur.
func (m *MemoryCache) Increment(_ context.Context, key string, delta int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.store[key]
	if !ok || entry.expired(m.now()) {
		entry = &memoryEntry{}
		m.store[key] = entry
	}
	entry.counter += delta
	return entry.counter, nil
}

func (m *MemoryCache) Flush(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := len(m.store)
	m.store = make(map[string]*memoryEntry)
	m.logger.Warn("memory cache flushed", "keys", n)
	return nil
}

// Size süresi dolmuşlar dahil entry sayısıdır.
func (m *MemoryCache) Size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.store)
}

func (m *MemoryCache) Stats() map[string]any {
	m.mu.RLock()
	defer m.mu.RUnlock()

	now := m.now()
	valid := 0
	for _, entry := range m.store {
		if !entry.expired(now) {
			valid++
		}
	}
	return map[string]any{
		"driver":       "memory",
		"total_keys":   len(m.store),
		"valid_keys":   valid,
		"expired_keys": len(m.store) - valid,
		"hits":         m.hits.Load(),
		"misses":       m.misses.Load(),
	}
}

// Close janitor'ı durdurur. Cache kullanılmaya devam edebilir.
func (m *MemoryCache) Close() error {
	m.stopOnce.Do(func() { close(m.stop) })
	return nil
}

func (m *MemoryCache) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.removeExpired()
		case <-m.stop:
			return
		}
	}
}

func (m *MemoryCache) removeExpired() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for key, entry := range m.store {
		if entry.expired(now) {
			delete(m.store, key)
			removed++
		}
	}
	if removed > 0 {
		m.logger.Debug("memory cache expired entries removed", "count", removed)
	}
	return removed
}
