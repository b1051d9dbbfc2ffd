package orm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biyonik/conduit-orm/pkg/database"
	"github.com/biyonik/conduit-orm/pkg/orm"
)

func TestJoin_Inner(t *testing.T) {
	forEachBackend(t, func(t *testing.T, e *env) {
		e.seedCompany(t)

		got, err := e.query(e.m.Employees).
			Join(e.m.Departments, "deptId", "id", "department").
			OrderBy("name").
			Get(e.ctx)
		require.NoError(t, err)

		// Dave'in departmanı yok; inner join satırı düşürür.
		assert.Equal(t, []any{"Alice", "Bob", "Carol"}, names(got))

		alice := got.First()
		dept, ok := alice.Relation("department")
		require.True(t, ok)
		require.IsType(t, &orm.Model{}, dept)
		assert.Equal(t, "HR", dept.(*orm.Model).Get("deptName"))
		assert.Equal(t, alice.Get("deptId"), dept.(*orm.Model).ID())

		// Join ile gelen ilişki sorgu atmadan okunur.
		e.counter.Reset()
		one, err := got.At(1).One(e.ctx, "department")
		require.NoError(t, err)
		assert.Equal(t, "Engineering", one.Get("deptName"))
		assert.Zero(t, e.counter.Count())

		// Primary tablonun alanları join'li sorguda da düz kalır.
		assert.Equal(t, float64(25), alice.Get("age"))
		_, leaked := alice.Attributes()["department_deptName"]
		assert.False(t, leaked)
	})
}

func TestJoin_Left(t *testing.T) {
	forEachBackend(t, func(t *testing.T, e *env) {
		e.seedCompany(t)

		got, err := e.query(e.m.Employees).
			LeftJoin(e.m.Departments, "deptId", "id", "department").
			OrderBy("name").
			Get(e.ctx)
		require.NoError(t, err)
		assert.Equal(t, []any{"Alice", "Bob", "Carol", "Dave"}, names(got))

		dave := got.Last()
		dept, ok := dave.Relation("department")
		assert.True(t, ok)
		assert.Nil(t, dept)

		m := dave.ToMap()
		assert.Contains(t, m, "department")
		assert.Nil(t, m["department"])
	})
}

func TestJoin_WhereOnJoinedQuery(t *testing.T) {
	forEachBackend(t, func(t *testing.T, e *env) {
		_, eng := e.seedCompany(t)

		got, err := e.query(e.m.Employees).
			Join(e.m.Departments, "deptId", "id", "department").
			Where("deptId", eng.ID()).
			Where("age", ">", 30).
			Get(e.ctx)
		require.NoError(t, err)
		assert.Equal(t, []any{"Carol"}, names(got))

		count, err := e.query(e.m.Employees).
			Join(e.m.Departments, "deptId", "id", "department").
			Count(e.ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
	})
}

func TestJoin_WhereOnJoinedColumn(t *testing.T) {
	forEachBackend(t, func(t *testing.T, e *env) {
		e.seedCompany(t)

		got, err := e.query(e.m.Employees).
			Join(e.m.Departments, "deptId", "id", "department").
			Where("department.deptName", "Engineering").
			OrderBy("name").
			Get(e.ctx)
		require.NoError(t, err)
		assert.Equal(t, []any{"Bob", "Carol"}, names(got))

		// Primary ve join kolonları birlikte.
		got, err = e.query(e.m.Employees).
			Join(e.m.Departments, "deptId", "id", "department").
			Where("age", ">", 30).
			Where("department.deptName", "Engineering").
			Get(e.ctx)
		require.NoError(t, err)
		assert.Equal(t, []any{"Carol"}, names(got))

		// OR zinciri join sonrasında bütün olarak değerlendirilir.
		got, err = e.query(e.m.Employees).
			LeftJoin(e.m.Departments, "deptId", "id", "department").
			Where("department.deptName", "HR").
			OrWhere("age", ">", 40).
			OrderBy("name").
			Get(e.ctx)
		require.NoError(t, err)
		assert.Equal(t, []any{"Alice", "Dave"}, names(got))

		got, err = e.query(e.m.Employees).
			LeftJoin(e.m.Departments, "deptId", "id", "department").
			WhereNull("department.deptName").
			Get(e.ctx)
		require.NoError(t, err)
		assert.Equal(t, []any{"Dave"}, names(got))

		count, err := e.query(e.m.Employees).
			Join(e.m.Departments, "deptId", "id", "department").
			Where("department.deptName", "Engineering").
			Count(e.ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})
}

func TestJoin_RightFullCrossOnSQL(t *testing.T) {
	e := sqliteOnly(t)
	e.seedCompany(t)
	_, err := e.query(e.m.Departments).Insert(e.ctx, map[string]any{"deptName": "Empty"})
	require.NoError(t, err)

	right, err := e.query(e.m.Employees).
		RightJoin(e.m.Departments, "deptId", "id", "department").
		Get(e.ctx)
	require.NoError(t, err)
	// 3 eşleşen çalışan + çalışanı olmayan departman.
	assert.Equal(t, 4, right.Count())

	orphan := right.Find(func(m *orm.Model) bool { return m.Get("name") == nil })
	require.NotNil(t, orphan)
	dept, err := orphan.One(e.ctx, "department")
	require.NoError(t, err)
	assert.Equal(t, "Empty", dept.Get("deptName"))

	full, err := e.query(e.m.Employees).
		FullJoin(e.m.Departments, "deptId", "id", "department").
		Get(e.ctx)
	require.NoError(t, err)
	// 3 eşleşen + Dave + Empty.
	assert.Equal(t, 5, full.Count())

	cross, err := e.query(e.m.Employees).
		CrossJoin(e.m.Departments, "department").
		Get(e.ctx)
	require.NoError(t, err)
	assert.Equal(t, 4*3, cross.Count())
}

func TestJoin_UnsupportedOnDocumentStore(t *testing.T) {
	e := memoryOnly(t)

	tests := map[string]*orm.Builder{
		"right": e.query(e.m.Employees).RightJoin(e.m.Departments, "deptId", "id", "department"),
		"full":  e.query(e.m.Employees).FullJoin(e.m.Departments, "deptId", "id", "department"),
		"cross": e.query(e.m.Employees).CrossJoin(e.m.Departments, "department"),
	}
	for name, q := range tests {
		t.Run(name, func(t *testing.T) {
			require.Error(t, q.Err())
			assert.True(t, database.IsNotSupported(q.Err()))

			var ns *database.NotSupportedError
			require.ErrorAs(t, q.Err(), &ns)
			assert.Equal(t, "memory", ns.Adapter)
			assert.Contains(t, ns.Operation, "join")

			_, err := q.Get(e.ctx)
			assert.Equal(t, q.Err(), err)
		})
	}
}

func TestJoin_Validation(t *testing.T) {
	e := memoryOnly(t)

	q := e.query(e.m.Employees).Join(orm.Define("nothing"), "deptId", "id", "x")
	assert.True(t, database.IsValidation(q.Err()))

	q = e.query(e.m.Employees).Join(e.m.Departments, "deptId", "id", "")
	assert.True(t, database.IsValidation(q.Err()))

	q = e.query(e.m.Employees).Join(nil, "deptId", "id", "department")
	assert.True(t, database.IsValidation(q.Err()))
}

func TestEagerLoad_BelongsTo(t *testing.T) {
	forEachBackend(t, func(t *testing.T, e *env) {
		e.seedCompany(t)

		e.counter.Reset()
		got, err := e.query(e.m.Employees).With("department").OrderBy("name").Get(e.ctx)
		require.NoError(t, err)

		// Ana sorgu + ilişki başına tek toplu sorgu.
		assert.Equal(t, 2, e.counter.Count())

		depts := make([]any, 0, got.Count())
		for _, emp := range got.Items() {
			dept, ok := emp.Relation("department")
			require.True(t, ok, "relation should be loaded for %v", emp.Get("name"))
			if dept == nil {
				depts = append(depts, nil)
				continue
			}
			depts = append(depts, dept.(*orm.Model).Get("deptName"))
		}
		assert.Equal(t, []any{"HR", "Engineering", "Engineering", nil}, depts)

		// Yüklenmiş ilişkiler yeni sorgu atmaz.
		e.counter.Reset()
		_, err = got.First().One(e.ctx, "department")
		require.NoError(t, err)
		assert.Zero(t, e.counter.Count())
	})
}

func TestEagerLoad_HasMany(t *testing.T) {
	forEachBackend(t, func(t *testing.T, e *env) {
		e.seedCompany(t)
		_, err := e.query(e.m.Departments).Insert(e.ctx, map[string]any{"deptName": "Empty"})
		require.NoError(t, err)

		e.counter.Reset()
		got, err := e.query(e.m.Departments).With("employees").OrderBy("deptName").Get(e.ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, e.counter.Count())

		counts := map[any]int{}
		for _, d := range got.Items() {
			emps, err := d.Many(e.ctx, "employees")
			require.NoError(t, err)
			counts[d.Get("deptName")] = emps.Count()
		}
		assert.Equal(t, map[any]int{"Empty": 0, "Engineering": 2, "HR": 1}, counts)
		assert.Equal(t, 2, e.counter.Count())

		eng := got.At(1)
		require.Equal(t, "Engineering", eng.Get("deptName"))
		emps, err := eng.Many(e.ctx, "employees")
		require.NoError(t, err)
		assert.ElementsMatch(t, []any{"Bob", "Carol"}, names(emps))
	})
}

func TestEagerLoad_EmptyResultRunsNoRelationQuery(t *testing.T) {
	e := memoryOnly(t)
	e.seedCompany(t)

	e.counter.Reset()
	got, err := e.query(e.m.Employees).Where("age", ">", 100).With("department").Get(e.ctx)
	require.NoError(t, err)
	assert.Zero(t, got.Count())
	assert.Equal(t, 1, e.counter.Count())
}

func TestLazyRelations(t *testing.T) {
	forEachBackend(t, func(t *testing.T, e *env) {
		hr, _ := e.seedCompany(t)

		alice, err := e.query(e.m.Employees).Where("name", "Alice").FirstOrFail(e.ctx)
		require.NoError(t, err)

		e.counter.Reset()
		dept, err := alice.One(e.ctx, "department")
		require.NoError(t, err)
		require.NotNil(t, dept)
		assert.Equal(t, hr.ID(), dept.ID())
		assert.Equal(t, 1, e.counter.Count())

		// Memoize edilir.
		again, err := alice.Attr(e.ctx, "department")
		require.NoError(t, err)
		assert.Same(t, dept, again)
		assert.Equal(t, 1, e.counter.Count())

		// Parent anahtarı null ise sorgu atılmaz.
		dave, err := e.query(e.m.Employees).Where("name", "Dave").FirstOrFail(e.ctx)
		require.NoError(t, err)
		e.counter.Reset()
		none, err := dave.One(e.ctx, "department")
		require.NoError(t, err)
		assert.Nil(t, none)
		assert.Zero(t, e.counter.Count())

		loadedHR, err := e.query(e.m.Departments).FindOrFail(e.ctx, hr.ID())
		require.NoError(t, err)
		staff, err := loadedHR.Many(e.ctx, "employees")
		require.NoError(t, err)
		assert.Equal(t, []any{"Alice"}, names(staff))

		// İlişki olmayan ad attribute döner.
		name, err := alice.Attr(e.ctx, "name")
		require.NoError(t, err)
		assert.Equal(t, "Alice", name)
	})
}

func TestLazyRelations_InsertedModelsResolve(t *testing.T) {
	e := memoryOnly(t)
	hr, _ := e.seedCompany(t)

	// Insert'ten dönen modeller de builder'a bağlıdır.
	staff, err := hr.Many(e.ctx, "employees")
	require.NoError(t, err)
	assert.Equal(t, []any{"Alice"}, names(staff))
}

func TestLazyRelations_DetachedModel(t *testing.T) {
	m := newModels()
	emp, err := orm.NewModel(m.Employees, map[string]any{"name": "Zed", "deptId": "x"})
	require.NoError(t, err)

	_, err = emp.Attr(t.Context(), "department")
	require.Error(t, err)
	assert.True(t, database.IsConnection(err))
}

func TestModel_ToMapAndBindIncludeRelations(t *testing.T) {
	forEachBackend(t, func(t *testing.T, e *env) {
		e.seedCompany(t)

		alice, err := e.query(e.m.Employees).With("department").Where("name", "Alice").FirstOrFail(e.ctx)
		require.NoError(t, err)

		m := alice.ToMap()
		assert.Equal(t, "Alice", m["name"])
		require.IsType(t, map[string]any{}, m["department"])
		assert.Equal(t, "HR", m["department"].(map[string]any)["deptName"])

		var dest struct {
			ID         string  `db:"id"`
			Name       string  `db:"name"`
			Age        float64 `db:"age"`
			Salary     int     `db:"salary"`
			Department struct {
				Name string `db:"deptName"`
			} `db:"department"`
		}
		require.NoError(t, alice.Bind(&dest))
		assert.Equal(t, alice.ID(), dest.ID)
		assert.Equal(t, "Alice", dest.Name)
		assert.Equal(t, float64(25), dest.Age)
		assert.Equal(t, 5000, dest.Salary)
		assert.Equal(t, "HR", dest.Department.Name)
	})
}
