package database

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Factory bir bağlantı yapılandırmasından bağlanmamış adapter üretir.
type Factory func(cfg ConnectionConfig, opts ...Option) (Adapter, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

func init() {
	sqlFactory := func(grammar func() Grammar) Factory {
		return func(cfg ConnectionConfig, opts ...Option) (Adapter, error) {
			return NewSQLAdapter(cfg, grammar(), opts...), nil
		}
	}
	Register("mysql", sqlFactory(func() Grammar { return NewMySQLGrammar() }))
	Register("postgres", sqlFactory(func() Grammar { return NewPostgresGrammar() }))
	Register("pq", sqlFactory(func() Grammar { return NewPostgresGrammar() }))
	Register("sqlite", sqlFactory(func() Grammar { return NewSQLiteGrammar() }))

	Register("redis", func(cfg ConnectionConfig, opts ...Option) (Adapter, error) {
		logger := newOptions(opts).Logger
		redisCfg := cfg.Redis
		return NewDocumentAdapter(cfg, func(ctx context.Context) (DocumentStore, error) {
			return NewRedisStore(ctx, redisCfg, logger)
		}, opts...), nil
	})
	Register("memory", func(cfg ConnectionConfig, opts ...Option) (Adapter, error) {
		return NewDocumentAdapter(cfg, func(context.Context) (DocumentStore, error) {
			return NewMemoryStore(), nil
		}, opts...), nil
	})
}

// Register bir sürücü adına adapter factory'si kaydeder. Aynı ad tekrar
// kaydedilirse önceki factory'nin üzerine yazılır.
func Register(driver string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[driver] = factory
}

// NewAdapter cfg.Driver için kayıtlı factory ile adapter üretir.
func NewAdapter(cfg ConnectionConfig, opts ...Option) (Adapter, error) {
	if cfg.Driver == "" {
		return nil, NewValidationError("driver", "connection %q has no driver", cfg.Name)
	}

	registryMu.RLock()
	factory, ok := registry[cfg.Driver]
	registryMu.RUnlock()
	if !ok {
		return nil, &UnknownAdapterError{Driver: cfg.Driver, Available: Drivers()}
	}
	return factory(cfg, opts...)
}

// Drivers kayıtlı sürücü adlarını sıralı döner.
func Drivers() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UnknownAdapterError kayıtlı olmayan bir sürücü istendiğinde döner.
type UnknownAdapterError struct {
	Driver    string
	Available []string
}

func (e *UnknownAdapterError) Error() string {
	return fmt.Sprintf("unknown database driver %q (available: %v)", e.Driver, e.Available)
}
