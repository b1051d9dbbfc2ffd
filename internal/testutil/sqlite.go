package testutil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/biyonik/conduit-orm/pkg/database"
)

// NewSQLiteAdapter test başına geçici dizinde dosya tabanlı bir SQLite
// veritabanına bağlı adapter döner. Havuz tek bağlantıdır; transaction
// içinde havuzdan ikinci bağlantı istenirse sorgu bekler, bu yüzden
// sabitlenmiş bağlantı kullanımı testlerde görünür olur.
func NewSQLiteAdapter(t testing.TB, name string, opts ...database.Option) *database.SQLAdapter {
	t.Helper()

	cfg := database.ConnectionConfig{
		Name:         name,
		Driver:       "sqlite",
		DSN:          filepath.Join(t.TempDir(), name+".db"),
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	}
	adapter := database.NewSQLAdapter(cfg, database.NewSQLiteGrammar(), opts...)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, adapter.Connect(ctx))

	t.Cleanup(func() { _ = adapter.Close() })
	return adapter
}

// NewMemoryAdapter in-memory doküman deposu üzerinde bağlı bir adapter döner.
func NewMemoryAdapter(t testing.TB, name string, opts ...database.Option) *database.DocumentAdapter {
	t.Helper()

	adapter := database.NewDocumentAdapterFromStore(name, database.NewMemoryStore(), opts...)
	t.Cleanup(func() { _ = adapter.Close() })
	return adapter
}

// Context testin süresini sınırlayan bir context döner. Kilitlenen bir
// sorgu testi asmak yerine deadline ile başarısız olur.
func Context(t testing.TB) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}
