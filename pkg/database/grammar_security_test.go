package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -----------------------------------------------------------------------------
// SQL INJECTION GÜVENLİK TESTLERİ
// -----------------------------------------------------------------------------
// Identifier'lar whitelist regex'inden geçmeli; geçmeyen her girdi derleme
// aşamasında ValidationError ile reddedilir ve hiçbir SQL üretilmez.
// -----------------------------------------------------------------------------

var maliciousIdentifiers = []struct {
	name  string
	value string
}{
	{"DROP TABLE attack", "id; DROP TABLE users--"},
	{"OR injection", "id' OR '1'='1"},
	{"UNION attack", "id UNION SELECT * FROM passwords--"},
	{"Comment injection", "id--"},
	{"Inline comment", "id/**/OR/**/1=1"},
	{"Semicolon injection", "id; UPDATE users SET admin=1"},
	{"Quote injection", "id'"},
	{"Double quote injection", `id"`},
	{"Backtick injection", "id`"},
}

func TestSQLInjection_OrderBy_MaliciousColumn(t *testing.T) {
	for _, tc := range maliciousIdentifiers {
		t.Run(tc.name, func(t *testing.T) {
			expr := NewExpression("users")
			expr.Orders = []OrderClause{{Column: tc.value, Direction: OrderDesc}}

			sql, _, err := NewMySQLGrammar().CompileSelect(expr)
			require.Error(t, err)
			assert.True(t, IsValidation(err))
			assert.Empty(t, sql)
		})
	}
}

func TestSQLInjection_Where_MaliciousColumn(t *testing.T) {
	for _, tc := range maliciousIdentifiers {
		t.Run(tc.name, func(t *testing.T) {
			expr := NewExpression("users")
			expr.Wheres = []WhereClause{where(tc.value, OpEqual, 1)}

			_, _, err := NewPostgresGrammar().CompileSelect(expr)
			assert.True(t, IsValidation(err))
		})
	}
}

func TestSQLInjection_Table_MaliciousName(t *testing.T) {
	for _, tc := range maliciousIdentifiers {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := NewSQLiteGrammar().CompileSelect(NewExpression(tc.value))
			assert.True(t, IsValidation(err))
		})
	}
}

func TestSQLInjection_Select_MaliciousColumn(t *testing.T) {
	for _, tc := range maliciousIdentifiers {
		t.Run(tc.name, func(t *testing.T) {
			expr := NewExpression("users")
			expr.Columns = []Column{{Name: tc.value}}

			_, _, err := NewMySQLGrammar().CompileSelect(expr)
			assert.True(t, IsValidation(err))
		})
	}
}

func TestSQLInjection_Insert_MaliciousColumn(t *testing.T) {
	expr := NewExpression("users")
	expr.Statement = StatementInsert
	expr.Documents = []Row{{"name; DROP TABLE users--": "x"}}

	_, _, err := NewMySQLGrammar().CompileInsert(expr)
	assert.True(t, IsValidation(err))
}

func TestSQLInjection_Update_MaliciousColumn(t *testing.T) {
	expr := NewExpression("users")
	expr.Statement = StatementUpdate
	expr.Changes = Row{"admin=1, name": "x"}

	_, _, err := NewMySQLGrammar().CompileUpdate(expr)
	assert.True(t, IsValidation(err))
}

func TestSQLInjection_JoinPrefix(t *testing.T) {
	expr := NewExpression("employees")
	join := departmentJoin(LeftJoin)
	join.Prefix = "d; DROP TABLE x"
	expr.Joins = []JoinClause{join}

	_, _, err := NewSQLiteGrammar().CompileSelect(expr)
	assert.True(t, IsValidation(err))
}

// Değerler her zaman placeholder ile bağlanır, SQL metnine girmez.
func TestSQLInjection_ValuesAreBound(t *testing.T) {
	payload := "'; DROP TABLE users; --"
	expr := NewExpression("users")
	expr.Wheres = []WhereClause{where("name", OpEqual, payload), where("id", OpIn, []string{payload})}

	sql, args, err := NewMySQLGrammar().CompileSelect(expr)
	require.NoError(t, err)
	assert.NotContains(t, sql, "DROP")
	assert.Equal(t, []any{payload, payload}, args)
}

func TestValidIdentifiers(t *testing.T) {
	g := NewMySQLGrammar()

	tests := []struct {
		input string
		want  string
	}{
		{"id", "`id`"},
		{"user_id", "`user_id`"},
		{"users.id", "`users`.`id`"},
		{"users.*", "`users`.*"},
		{"*", "*"},
		{"Column123", "`Column123`"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := g.Wrap(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEmptyIdentifiers(t *testing.T) {
	g := NewPostgresGrammar()
	for _, input := range []string{"", ".", "users.", ".id", " "} {
		t.Run("'"+input+"'", func(t *testing.T) {
			_, err := g.Wrap(input)
			assert.True(t, IsValidation(err))
		})
	}
}

func TestMultipleDots(t *testing.T) {
	_, err := NewSQLiteGrammar().Wrap("db.schema.table")
	assert.True(t, IsValidation(err))
}
