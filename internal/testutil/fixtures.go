package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/biyonik/conduit-orm/pkg/database/migration"
)

// Fixture tablo adları.
const (
	PeopleTable      = "people"
	DepartmentsTable = "departments"
	EmployeesTable   = "employees"
	UsersTable       = "users"
)

// Fixture tablolarının şemaları. Sayısal alanlar double'dır; number cast'i
// float64 yazar.
var fixtureTables = []struct {
	name  string
	build func(*migration.Blueprint)
}{
	{PeopleTable, func(t *migration.Blueprint) {
		t.UUID("id").Primary()
		t.String("name", 255)
		t.Double("age").Nullable()
		t.String("religion", 64).Nullable()
		t.Boolean("active").Nullable()
		t.Timestamp("born").Nullable()
		t.JSON("tags").Nullable()
		t.JSON("meta").Nullable()
		t.Timestamps()
	}},
	{DepartmentsTable, func(t *migration.Blueprint) {
		t.UUID("id").Primary()
		t.String("deptName", 255)
		t.Timestamps()
	}},
	{EmployeesTable, func(t *migration.Blueprint) {
		t.UUID("id").Primary()
		t.UUID("deptId").Nullable()
		t.String("name", 255)
		t.Double("age").Nullable()
		t.Double("salary").Nullable()
		t.Timestamps()
	}},
	{UsersTable, func(t *migration.Blueprint) {
		t.UUID("id").Primary()
		t.String("email", 255).Unique()
		t.String("hashedPassword", 255).Nullable()
		t.JSON("aclRoles").Nullable()
		t.JSON("aclGroups").Nullable()
		t.Timestamps()
	}},
}

// CreateFixtureTables tüm fixture tablolarını oluşturur. Var olan tablolar
// önce silinir.
func CreateFixtureTables(ctx context.Context, t testing.TB, schema migration.Schema) {
	t.Helper()
	for _, table := range fixtureTables {
		require.NoError(t, schema.DropTable(ctx, table.name))
		require.NoError(t, schema.CreateTable(ctx, table.name, table.build))
	}
}

// PeopleRows dört kişilik standart veri kümesidir: yaşlar 25, 30, 35, 45;
// Dave'in dini null'dur.
func PeopleRows() []map[string]any {
	return []map[string]any{
		{"name": "Alice", "age": 25, "religion": "Islam", "active": true, "tags": []any{"admin", "staff"}, "meta": map[string]any{"city": "Istanbul"}},
		{"name": "Bob", "age": 30, "religion": "Christian", "active": false, "tags": []any{"staff"}},
		{"name": "Carol", "age": 35, "religion": "Jewish", "active": true},
		{"name": "Dave", "age": 45, "religion": nil, "active": false},
	}
}
