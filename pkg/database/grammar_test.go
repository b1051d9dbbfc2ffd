package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -----------------------------------------------------------------------------
// GRAMMAR TESTLERİ
// -----------------------------------------------------------------------------

func where(column string, op Operator, value any) WhereClause {
	return WhereClause{Column: column, Operator: op, Value: value, Boolean: BooleanAnd}
}

func orWhere(column string, op Operator, value any) WhereClause {
	return WhereClause{Column: column, Operator: op, Value: value, Boolean: BooleanOr}
}

func departmentJoin(t JoinType) JoinClause {
	return JoinClause{
		Type:       t,
		Table:      "departments",
		Columns:    []string{"id", "deptName"},
		LocalKey:   "deptId",
		ForeignKey: "id",
		Prefix:     "department",
	}
}

func TestCompileSelect_Dialects(t *testing.T) {
	expr := NewExpression("people")
	expr.Wheres = []WhereClause{
		where("age", OpGreater, 30),
		where("name", OpLike, "A%"),
	}
	expr.Orders = []OrderClause{{Column: "age", Direction: OrderDesc}}
	expr.Limit = 10

	tests := []struct {
		name    string
		grammar Grammar
		want    string
	}{
		{"mysql", NewMySQLGrammar(), "SELECT * FROM `people` WHERE `age` > ? AND `name` LIKE ? ORDER BY `age` DESC LIMIT 10"},
		{"postgres", NewPostgresGrammar(), `SELECT * FROM "people" WHERE "age" > $1 AND "name" LIKE $2 ORDER BY "age" DESC LIMIT 10`},
		{"sqlite", NewSQLiteGrammar(), `SELECT * FROM "people" WHERE "age" > ? AND "name" LIKE ? ORDER BY "age" DESC LIMIT 10`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := tt.grammar.CompileSelect(expr.Clone())
			require.NoError(t, err)
			assert.Equal(t, tt.want, sql)
			assert.Equal(t, []any{30, "A%"}, args)
		})
	}
}

func TestCompileSelect_OffsetWithoutLimit(t *testing.T) {
	expr := NewExpression("people")
	expr.Offset = 5

	tests := []struct {
		grammar Grammar
		want    string
	}{
		{NewMySQLGrammar(), "SELECT * FROM `people` LIMIT 18446744073709551615 OFFSET 5"},
		{NewPostgresGrammar(), `SELECT * FROM "people" OFFSET 5`},
		{NewSQLiteGrammar(), `SELECT * FROM "people" LIMIT -1 OFFSET 5`},
	}
	for _, tt := range tests {
		t.Run(tt.grammar.Name(), func(t *testing.T) {
			sql, _, err := tt.grammar.CompileSelect(expr.Clone())
			require.NoError(t, err)
			assert.Equal(t, tt.want, sql)
		})
	}
}

func TestCompileSelect_LeftFoldedBooleans(t *testing.T) {
	g := NewSQLiteGrammar()

	tests := []struct {
		name   string
		wheres []WhereClause
		want   string
	}{
		{
			name:   "and only",
			wheres: []WhereClause{where("a", OpEqual, 1), where("b", OpEqual, 2), where("c", OpEqual, 3)},
			want:   `SELECT * FROM "t" WHERE "a" = ? AND "b" = ? AND "c" = ?`,
		},
		{
			name:   "or then and",
			wheres: []WhereClause{where("a", OpEqual, 1), orWhere("b", OpEqual, 2), where("c", OpEqual, 3)},
			want:   `SELECT * FROM "t" WHERE ("a" = ? OR "b" = ?) AND "c" = ?`,
		},
		{
			name:   "and then or",
			wheres: []WhereClause{where("a", OpEqual, 1), where("b", OpEqual, 2), orWhere("c", OpEqual, 3)},
			want:   `SELECT * FROM "t" WHERE ("a" = ? AND "b" = ?) OR "c" = ?`,
		},
		{
			name:   "single or",
			wheres: []WhereClause{where("a", OpEqual, 1), orWhere("b", OpEqual, 2)},
			want:   `SELECT * FROM "t" WHERE "a" = ? OR "b" = ?`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr := NewExpression("t")
			expr.Wheres = tt.wheres
			sql, args, err := g.CompileSelect(expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, sql)
			assert.Len(t, args, len(tt.wheres))
		})
	}
}

func TestCompileSelect_Operators(t *testing.T) {
	g := NewSQLiteGrammar()

	tests := []struct {
		name     string
		clause   WhereClause
		wantSQL  string
		wantArgs []any
	}{
		{"not equal", where("age", OpNotEqual, 3), `"age" <> ?`, []any{3}},
		{"in", where("id", OpIn, []int{1, 2, 3}), `"id" IN (?, ?, ?)`, []any{1, 2, 3}},
		{"not in", where("id", OpNotIn, []string{"a"}), `"id" NOT IN (?)`, []any{"a"}},
		{"empty in", where("id", OpIn, []any{}), `1 = 0`, nil},
		{"empty not in", where("id", OpNotIn, []any{}), `1 = 1`, nil},
		{"between", where("age", OpBetween, []any{18, 65}), `"age" BETWEEN ? AND ?`, []any{18, 65}},
		{"not between", where("age", OpNotBetween, [2]int{18, 65}), `"age" NOT BETWEEN ? AND ?`, []any{18, 65}},
		{"is null", where("deletedAt", OpIsNull, nil), `"deletedAt" IS NULL`, nil},
		{"is not null", where("deletedAt", OpIsNotNull, "ignored"), `"deletedAt" IS NOT NULL`, nil},
		{"equal nil", where("deletedAt", OpEqual, nil), `"deletedAt" IS NULL`, nil},
		{"not equal nil", where("deletedAt", OpNotEqual, nil), `"deletedAt" IS NOT NULL`, nil},
		{"not like", where("name", OpNotLike, "%x"), `"name" NOT LIKE ?`, []any{"%x"}},
		{"less or equal", where("age", OpLessOrEqual, 9), `"age" <= ?`, []any{9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr := NewExpression("people")
			expr.Wheres = []WhereClause{tt.clause}
			sql, args, err := g.CompileSelect(expr)
			require.NoError(t, err)
			assert.Equal(t, `SELECT * FROM "people" WHERE `+tt.wantSQL, sql)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestCompileSelect_InvalidClauses(t *testing.T) {
	g := NewSQLiteGrammar()

	tests := []struct {
		name   string
		clause WhereClause
	}{
		{"unknown operator", where("age", Operator("regex"), 1)},
		{"in without list", where("id", OpIn, 5)},
		{"between with three values", where("age", OpBetween, []int{1, 2, 3})},
		{"like without string", where("name", OpLike, 5)},
		{"greater than nil", where("age", OpGreater, nil)},
		{"less or equal nil", where("age", OpLessOrEqual, nil)},
		{"between nil", where("age", OpBetween, nil)},
		{"missing column", where("", OpEqual, 1)},
		{"unknown boolean", WhereClause{Column: "a", Operator: OpEqual, Value: 1, Boolean: "XOR"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr := NewExpression("people")
			expr.Wheres = []WhereClause{tt.clause}
			_, _, err := g.CompileSelect(expr)
			require.Error(t, err)
			assert.True(t, IsValidation(err), "expected validation error, got %v", err)
		})
	}
}

func TestCompileSelect_Joins(t *testing.T) {
	expr := NewExpression("employees")
	expr.Joins = []JoinClause{departmentJoin(LeftJoin)}
	expr.Wheres = []WhereClause{where("name", OpEqual, "Alice"), where("department.deptName", OpEqual, "HR")}
	expr.Orders = []OrderClause{{Column: "name", Direction: OrderAsc}}

	sql, args, err := NewPostgresGrammar().CompileSelect(expr)
	require.NoError(t, err)
	assert.Equal(t,
		`SELECT "employees".*, "department"."id" AS "department_id", "department"."deptName" AS "department_deptName" `+
			`FROM "employees" LEFT JOIN "departments" AS "department" ON "employees"."deptId" = "department"."id" `+
			`WHERE "employees"."name" = $1 AND "department"."deptName" = $2 ORDER BY "employees"."name" ASC`,
		sql)
	assert.Equal(t, []any{"Alice", "HR"}, args)
}

func TestCompileSelect_JoinKinds(t *testing.T) {
	tests := []struct {
		joinType JoinType
		keyword  string
	}{
		{InnerJoin, ` INNER JOIN "departments" AS "department" ON`},
		{RightJoin, ` RIGHT JOIN "departments" AS "department" ON`},
		{FullJoin, ` FULL OUTER JOIN "departments" AS "department" ON`},
		{CrossJoin, ` CROSS JOIN "departments" AS "department"`},
	}

	for _, tt := range tests {
		t.Run(string(tt.joinType), func(t *testing.T) {
			expr := NewExpression("employees")
			expr.Joins = []JoinClause{departmentJoin(tt.joinType)}
			sql, _, err := NewSQLiteGrammar().CompileSelect(expr)
			require.NoError(t, err)
			assert.Contains(t, sql, tt.keyword)
		})
	}
}

func TestCompileSelect_UnsupportedJoin(t *testing.T) {
	expr := NewExpression("employees")
	expr.Joins = []JoinClause{departmentJoin(FullJoin)}

	_, _, err := NewMySQLGrammar().CompileSelect(expr)
	require.Error(t, err)
	assert.True(t, IsNotSupported(err))
	assert.Contains(t, err.Error(), "full join")
}

func TestCompileSelect_Aggregate(t *testing.T) {
	expr := NewExpression("people")
	expr.Wheres = []WhereClause{where("age", OpGreater, 20)}
	expr.Orders = []OrderClause{{Column: "age", Direction: OrderAsc}}
	expr.Limit = 1
	expr.Offset = 3
	expr.Aggregate = &Aggregate{Kind: AggregateCount}

	sql, args, err := NewSQLiteGrammar().CompileSelect(expr.Clone())
	require.NoError(t, err)
	assert.Equal(t, `SELECT COUNT(*) AS "aggregate" FROM "people" WHERE "age" > ?`, sql)
	assert.Equal(t, []any{20}, args)

	expr.Aggregate = &Aggregate{Kind: AggregateAvg, Column: "age"}
	sql, _, err = NewMySQLGrammar().CompileSelect(expr.Clone())
	require.NoError(t, err)
	assert.Equal(t, "SELECT AVG(`age`) AS `aggregate` FROM `people` WHERE `age` > ?", sql)

	expr.Aggregate = &Aggregate{Kind: AggregateSum}
	_, _, err = NewMySQLGrammar().CompileSelect(expr.Clone())
	assert.True(t, IsValidation(err))
}

func TestCompileInsert_ColumnUnion(t *testing.T) {
	expr := NewExpression("people")
	expr.Statement = StatementInsert
	expr.Documents = []Row{
		{"id": 1, "name": "Alice"},
		{"id": 2, "age": 30},
	}

	sql, args, err := NewSQLiteGrammar().CompileInsert(expr.Clone())
	require.NoError(t, err)
	assert.Equal(t, `INSERT INTO "people" ("age", "id", "name") VALUES (?, ?, ?), (?, ?, ?)`, sql)
	assert.Equal(t, []any{nil, 1, "Alice", 30, 2, nil}, args)

	sql, _, err = NewPostgresGrammar().CompileInsert(expr.Clone())
	require.NoError(t, err)
	assert.Equal(t, `INSERT INTO "people" ("age", "id", "name") VALUES ($1, $2, $3), ($4, $5, $6)`, sql)

	expr.Documents = nil
	_, _, err = NewSQLiteGrammar().CompileInsert(expr)
	assert.True(t, IsValidation(err))
}

func TestCompileUpdate(t *testing.T) {
	expr := NewExpression("people")
	expr.Statement = StatementUpdate
	expr.Changes = Row{"name": "Bob", "age": 41}
	expr.Wheres = []WhereClause{where("id", OpEqual, 7)}
	expr.Joins = []JoinClause{departmentJoin(LeftJoin)}

	sql, args, err := NewPostgresGrammar().CompileUpdate(expr)
	require.NoError(t, err)
	assert.Equal(t, `UPDATE "people" SET "age" = $1, "name" = $2 WHERE "id" = $3`, sql)
	assert.Equal(t, []any{41, "Bob", 7}, args)
}

func TestCompileDelete(t *testing.T) {
	expr := NewExpression("people")
	expr.Statement = StatementDelete
	expr.Wheres = []WhereClause{where("age", OpLess, 18), orWhere("name", OpIsNull, nil)}

	sql, args, err := NewMySQLGrammar().CompileDelete(expr)
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM `people` WHERE `age` < ? OR `name` IS NULL", sql)
	assert.Equal(t, []any{18}, args)
}

func TestParseOperator(t *testing.T) {
	tests := []struct {
		raw  string
		want Operator
	}{
		{"=", OpEqual},
		{"LIKE", OpLike},
		{"Not  Like", OpNotLike},
		{"IS NOT NULL", OpIsNotNull},
		{" between ", OpBetween},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			op, err := ParseOperator(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, op)
		})
	}

	_, err := ParseOperator("~=")
	assert.True(t, IsValidation(err))
}
