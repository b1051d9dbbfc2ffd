package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biyonik/conduit-orm/pkg/database/migration"
)

func TestNewAdapter_BuiltinDrivers(t *testing.T) {
	for _, driver := range []string{"mysql", "postgres", "pq", "sqlite", "redis", "memory"} {
		t.Run(driver, func(t *testing.T) {
			a, err := NewAdapter(ConnectionConfig{Name: "x", Driver: driver})
			require.NoError(t, err)
			assert.Equal(t, driver, a.Driver())
			assert.False(t, a.IsConnected())
		})
	}
}

func TestNewAdapter_UnknownDriver(t *testing.T) {
	_, err := NewAdapter(ConnectionConfig{Name: "x", Driver: "oracle"})

	var unknown *UnknownAdapterError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "oracle", unknown.Driver)
	assert.Contains(t, unknown.Available, "sqlite")

	_, err = NewAdapter(ConnectionConfig{Name: "x"})
	assert.True(t, IsValidation(err))
}

func TestRegister_CustomDriver(t *testing.T) {
	store := NewMemoryStore()
	Register("custom-memory", func(cfg ConnectionConfig, opts ...Option) (Adapter, error) {
		return NewDocumentAdapterFromStore(cfg.Name, store, opts...), nil
	})

	a, err := NewAdapter(ConnectionConfig{Name: "custom", Driver: "custom-memory"})
	require.NoError(t, err)
	assert.True(t, a.IsConnected())
	assert.Contains(t, Drivers(), "custom-memory")
}

func TestNewAdapter_SQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	a, err := NewAdapter(ConnectionConfig{Name: "mem", Driver: "sqlite", DSN: filepath.Join(t.TempDir(), "notes.db")})
	require.NoError(t, err)
	require.NoError(t, a.Connect(ctx))
	t.Cleanup(func() { a.Close() })

	require.NoError(t, a.Schema().CreateTable(ctx, "notes", func(bp *migration.Blueprint) {
		bp.Increments("id")
		bp.String("body", 255)
	}))

	insert := NewExpression("notes")
	insert.Statement = StatementInsert
	insert.Documents = []Row{{"body": "first"}, {"body": "second"}}
	q, err := a.Compile(insert)
	require.NoError(t, err)
	res, err := a.Execute(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.RowsAffected)

	sel := NewExpression("notes")
	sel.Orders = []OrderClause{{Column: "id", Direction: OrderDesc}}
	q, err = a.Compile(sel)
	require.NoError(t, err)
	res, err = a.Execute(ctx, q)
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, "second", res.Rows[0]["body"])
}
