//go:build integration

package orm_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biyonik/conduit-orm/internal/testutil"
	"github.com/biyonik/conduit-orm/pkg/database"
	"github.com/biyonik/conduit-orm/pkg/orm"
)

// Aynı senaryo iki PostgreSQL sürücüsüyle (pgx ve lib/pq) çalıştırılır.
func TestPostgres_EndToEnd(t *testing.T) {
	dsn := testutil.PostgresDSN(t)

	for _, driver := range []string{"postgres", "pq"} {
		t.Run(driver, func(t *testing.T) {
			ctx := testutil.Context(t)
			logger := testutil.NewTestLogger(t)

			m, err := orm.Init(ctx, []database.ConnectionConfig{
				{Name: "pg", Driver: driver, DSN: dsn, MaxOpenConns: 4},
			}, orm.WithLogger(logger), orm.WithQueryLogging(true))
			require.NoError(t, err)
			t.Cleanup(func() { _ = m.Close() })

			schema, err := m.Schema("")
			require.NoError(t, err)
			testutil.CreateFixtureTables(ctx, t, schema)

			defs := newModels()
			counter := testutil.NewQueryCounter().Attach(m.Dispatcher())

			people, err := m.Query(defs.People).Insert(ctx, testutil.PeopleRows()...)
			require.NoError(t, err)
			require.Equal(t, 4, people.Count())

			alice, err := m.Query(defs.People).Where("name", "Alice").FirstOrFail(ctx)
			require.NoError(t, err)
			assert.Equal(t, float64(25), alice.Get("age"))
			assert.Equal(t, true, alice.Get("active"))
			assert.Equal(t, []any{"admin", "staff"}, alice.Get("tags"))
			assert.Equal(t, map[string]any{"city": "Istanbul"}, alice.Get("meta"))
			assert.IsType(t, time.Time{}, alice.Get("createdAt"))

			older, err := m.Query(defs.People).Where("age", ">=", 30).WhereNotNull("religion").OrderBy("age", "desc").Get(ctx)
			require.NoError(t, err)
			assert.Equal(t, []any{"Carol", "Bob"}, names(older))

			// LIKE PostgreSQL'de büyük/küçük harfe duyarlıdır: Carol ve Dave.
			like, err := m.Query(defs.People).WhereLike("name", "%a%").Count(ctx)
			require.NoError(t, err)
			assert.Equal(t, int64(2), like)

			sum, err := m.Query(defs.People).Sum(ctx, "age")
			require.NoError(t, err)
			assert.Equal(t, float64(135), sum)

			boom := errors.New("boom")
			err = m.Query(defs.People).Transaction(ctx, func(tx *orm.Builder) error {
				if _, err := tx.Clone().Where("name", "Dave").Delete(ctx); err != nil {
					return err
				}
				return boom
			})
			assert.Same(t, boom, err)

			n, err := m.Query(defs.People).Count(ctx)
			require.NoError(t, err)
			assert.Equal(t, int64(4), n)

			depts, err := m.Query(defs.Departments).Insert(ctx,
				map[string]any{"deptName": "HR"},
				map[string]any{"deptName": "Engineering"},
			)
			require.NoError(t, err)
			_, err = m.Query(defs.Employees).Insert(ctx,
				map[string]any{"name": "Alice", "age": 25, "deptId": depts.At(0).ID()},
				map[string]any{"name": "Bob", "age": 30, "deptId": depts.At(1).ID()},
				map[string]any{"name": "Dave", "age": 45},
			)
			require.NoError(t, err)

			full, err := m.Query(defs.Employees).
				FullJoin(defs.Departments, "deptId", "id", "department").
				Get(ctx)
			require.NoError(t, err)
			assert.Equal(t, 3, full.Count())

			counter.Reset()
			eager, err := m.Query(defs.Departments).With("employees").OrderBy("deptName").Get(ctx)
			require.NoError(t, err)
			assert.Equal(t, 2, counter.Count())
			staff, err := eager.First().Many(ctx, "employees")
			require.NoError(t, err)
			assert.Equal(t, []any{"Bob"}, names(staff))
		})
	}
}
