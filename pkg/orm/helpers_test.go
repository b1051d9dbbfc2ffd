package orm_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/biyonik/conduit-orm/internal/testutil"
	"github.com/biyonik/conduit-orm/pkg/auth"
	"github.com/biyonik/conduit-orm/pkg/database"
	"github.com/biyonik/conduit-orm/pkg/events"
	"github.com/biyonik/conduit-orm/pkg/orm"
)

// models test tablolarının tanımlarıdır. İlişkiler karşılıklı olduğu için
// her test kendi kopyasını kurar.
type models struct {
	People      *orm.Definition
	Departments *orm.Definition
	Employees   *orm.Definition
	Users       *orm.Definition
}

func newModels() models {
	people := orm.Define(testutil.PeopleTable, "id", "name", "age", "religion", "active", "born", "tags", "meta").
		Cast("name", orm.CastString).
		Cast("age", orm.CastNumber).
		Cast("religion", orm.CastString).
		Cast("active", orm.CastBoolean).
		Cast("born", orm.CastDate).
		Cast("tags", orm.CastArray).
		Cast("meta", orm.CastObject).
		WithTimestamps("createdAt", "updatedAt")

	departments := orm.Define(testutil.DepartmentsTable, "id", "deptName").
		WithTimestamps("createdAt", "updatedAt")

	employees := orm.Define(testutil.EmployeesTable, "id", "deptId", "name", "age", "salary").
		Cast("age", orm.CastNumber).
		Cast("salary", orm.CastNumber).
		WithTimestamps("createdAt", "updatedAt").
		BelongsTo("department", departments, "deptId", "id")

	departments.HasMany("employees", employees, "id", "deptId")

	users := orm.Define(testutil.UsersTable, "id").
		Authenticatable(auth.NewHasher(4)).
		WithTimestamps("createdAt", "updatedAt")

	return models{People: people, Departments: departments, Employees: employees, Users: users}
}

// env tek bir backend üzerinde kurulmuş test ortamıdır.
type env struct {
	ctx     context.Context
	manager *orm.Manager
	adapter database.Adapter
	counter *testutil.QueryCounter
	m       models
}

type backend struct {
	name string
	open func(t *testing.T, opts ...database.Option) database.Adapter
}

var backends = []backend{
	{"sqlite", func(t *testing.T, opts ...database.Option) database.Adapter {
		return testutil.NewSQLiteAdapter(t, "sqlite", opts...)
	}},
	{"memory", func(t *testing.T, opts ...database.Option) database.Adapter {
		return testutil.NewMemoryAdapter(t, "memory", opts...)
	}},
}

// forEachBackend testi her backend için fixture tabloları kurulmuş temiz
// bir ortamda çalıştırır.
func forEachBackend(t *testing.T, fn func(t *testing.T, e *env), opts ...orm.Option) {
	t.Helper()
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			fn(t, newEnv(t, b, opts...))
		})
	}
}

func sqliteOnly(t *testing.T, opts ...orm.Option) *env {
	t.Helper()
	return newEnv(t, backends[0], opts...)
}

func memoryOnly(t *testing.T, opts ...orm.Option) *env {
	t.Helper()
	return newEnv(t, backends[1], opts...)
}

func newEnv(t *testing.T, b backend, opts ...orm.Option) *env {
	t.Helper()

	logger := testutil.NewTestLogger(t)
	dispatcher := events.NewDispatcher(logger)
	opts = append([]orm.Option{orm.WithLogger(logger), orm.WithDispatcher(dispatcher)}, opts...)

	manager := orm.NewManager(opts...)
	adapter := b.open(t, database.WithLogger(logger), database.WithDispatcher(dispatcher), database.WithQueryLogging(true))
	require.NoError(t, manager.Add(adapter))

	e := &env{
		ctx:     testutil.Context(t),
		manager: manager,
		adapter: adapter,
		counter: testutil.NewQueryCounter().Attach(dispatcher),
		m:       newModels(),
	}

	schema, err := manager.Schema("")
	require.NoError(t, err)
	testutil.CreateFixtureTables(e.ctx, t, schema)
	return e
}

func (e *env) query(def *orm.Definition) *orm.Builder {
	return e.manager.Query(def)
}

// seedPeople standart dört kişiyi ekler.
func (e *env) seedPeople(t *testing.T) *orm.Collection {
	t.Helper()
	people, err := e.query(e.m.People).Insert(e.ctx, testutil.PeopleRows()...)
	require.NoError(t, err)
	require.Equal(t, 4, people.Count())
	return people
}

// seedCompany iki departman ve dört çalışan ekler; Dave'in departmanı yoktur.
func (e *env) seedCompany(t *testing.T) (hr, eng *orm.Model) {
	t.Helper()

	depts, err := e.query(e.m.Departments).Insert(e.ctx,
		map[string]any{"deptName": "HR"},
		map[string]any{"deptName": "Engineering"},
	)
	require.NoError(t, err)
	hr, eng = depts.At(0), depts.At(1)

	_, err = e.query(e.m.Employees).Insert(e.ctx,
		map[string]any{"name": "Alice", "age": 25, "salary": 5000, "deptId": hr.ID()},
		map[string]any{"name": "Bob", "age": 30, "salary": 6000, "deptId": eng.ID()},
		map[string]any{"name": "Carol", "age": 35, "salary": 7000, "deptId": eng.ID()},
		map[string]any{"name": "Dave", "age": 45, "salary": 8000, "deptId": nil},
	)
	require.NoError(t, err)
	return hr, eng
}

func names(c *orm.Collection) []any {
	return c.Pluck("name")
}

func fixedClock(ts time.Time) func() time.Time {
	return func() time.Time { return ts }
}
