package orm_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biyonik/conduit-orm/pkg/cache"
	"github.com/biyonik/conduit-orm/pkg/database"
	"github.com/biyonik/conduit-orm/pkg/orm"
)

func newQueryCache(t *testing.T) *cache.MemoryCache {
	t.Helper()
	c := cache.NewMemoryCache(nil, time.Hour)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestRemember_ServesRepeatedQueriesFromCache(t *testing.T) {
	forEachBackend(t, func(t *testing.T, e *env) {
		e.seedPeople(t)

		older := func() *orm.Builder {
			return e.query(e.m.People).Where("age", ">", 26).OrderBy("age").Remember(time.Minute)
		}

		e.counter.Reset()
		first, err := older().Get(e.ctx)
		require.NoError(t, err)
		assert.Equal(t, []any{"Bob", "Carol", "Dave"}, names(first))
		assert.Equal(t, 1, e.counter.Count())

		second, err := older().Get(e.ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, e.counter.Count())
		assert.Equal(t, names(first), names(second))

		// Cache'ten gelen satırlar da cast'ten geçer.
		bob := second.First()
		assert.Equal(t, float64(30), bob.Get("age"))
		assert.Equal(t, false, bob.Get("active"))
		assert.Equal(t, []any{"staff"}, bob.Get("tags"))
		assert.IsType(t, time.Time{}, bob.Get("createdAt"))
		assert.True(t, bob.Exists())

		// Farklı bir sorgu farklı key kullanır.
		_, err = e.query(e.m.People).Where("age", ">", 40).Remember(time.Minute).Get(e.ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, e.counter.Count())
	}, orm.WithCache(newQueryCache(t)))
}

func TestRemember_WritesInvalidate(t *testing.T) {
	forEachBackend(t, func(t *testing.T, e *env) {
		e.seedPeople(t)

		cached := func() *orm.Builder {
			return e.query(e.m.People).OrderBy("age").Remember(time.Minute)
		}
		_, err := cached().Get(e.ctx)
		require.NoError(t, err)

		_, err = e.query(e.m.People).Where("name", "Alice").Update(e.ctx, map[string]any{"age": 99})
		require.NoError(t, err)

		e.counter.Reset()
		got, err := cached().Get(e.ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, e.counter.Count())
		assert.Equal(t, []any{"Bob", "Carol", "Dave", "Alice"}, names(got))

		_, err = e.query(e.m.People).Where("name", "Dave").Delete(e.ctx)
		require.NoError(t, err)
		got, err = cached().Get(e.ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, got.Count())

		_, err = e.query(e.m.People).Insert(e.ctx, map[string]any{"name": "Eve", "age": 20})
		require.NoError(t, err)
		got, err = cached().Get(e.ctx)
		require.NoError(t, err)
		assert.Equal(t, "Eve", got.First().Get("name"))
	}, orm.WithCache(newQueryCache(t)))
}

func TestRemember_JoinedTablesInvalidate(t *testing.T) {
	forEachBackend(t, func(t *testing.T, e *env) {
		hr, _ := e.seedCompany(t)

		joined := func() *orm.Builder {
			return e.query(e.m.Employees).
				Join(e.m.Departments, "deptId", "id", "department").
				Where("name", "Alice").
				Remember(time.Minute)
		}
		alice, err := joined().FirstOrFail(e.ctx)
		require.NoError(t, err)
		dept, err := alice.One(e.ctx, "department")
		require.NoError(t, err)
		assert.Equal(t, "HR", dept.Get("deptName"))

		_, err = e.query(e.m.Departments).Where("id", hr.ID()).Update(e.ctx, map[string]any{"deptName": "People Ops"})
		require.NoError(t, err)

		alice, err = joined().FirstOrFail(e.ctx)
		require.NoError(t, err)
		dept, err = alice.One(e.ctx, "department")
		require.NoError(t, err)
		assert.Equal(t, "People Ops", dept.Get("deptName"))
	}, orm.WithCache(newQueryCache(t)))
}

func TestRemember_BypassedInsideTransaction(t *testing.T) {
	e := sqliteOnly(t, orm.WithCache(newQueryCache(t)))
	e.seedPeople(t)

	cached := func() *orm.Builder {
		return e.query(e.m.People).Remember(time.Minute)
	}
	_, err := cached().Get(e.ctx)
	require.NoError(t, err)

	err = e.query(e.m.People).Transaction(e.ctx, func(tx *orm.Builder) error {
		if _, err := tx.Clone().Insert(e.ctx, map[string]any{"name": "Eve", "age": 20}); err != nil {
			return err
		}
		e.counter.Reset()
		inside, err := tx.Clone().Remember(time.Minute).Get(e.ctx)
		require.NoError(t, err)
		assert.Equal(t, 5, inside.Count())
		assert.Equal(t, 1, e.counter.Count())
		return nil
	})
	require.NoError(t, err)

	got, err := cached().Get(e.ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Count())
}

func TestRemember_Validation(t *testing.T) {
	e := memoryOnly(t)
	e.seedPeople(t)

	q := e.query(e.m.People).Remember(0)
	assert.True(t, database.IsValidation(q.Err()))

	// Manager'da cache yoksa Remember etkisizdir.
	e.counter.Reset()
	for range 2 {
		_, err := e.query(e.m.People).Remember(time.Minute).Get(e.ctx)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, e.counter.Count())
}
