package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func employeesBlueprint() *Blueprint {
	bp := NewBlueprint("employees")
	bp.UUID("id").Primary()
	bp.String("name", 100)
	bp.Boolean("active").Default(true)
	bp.String("deptId", 36).Nullable()
	bp.Index("deptId")
	return bp
}

func TestCompileCreateTable_SQLite(t *testing.T) {
	stmts := NewSQLiteGrammar().CompileCreateTable(employeesBlueprint())

	require.Len(t, stmts, 2)
	assert.Equal(t, "CREATE TABLE \"employees\" (\n"+
		"  \"id\" VARCHAR(36) NOT NULL PRIMARY KEY,\n"+
		"  \"name\" VARCHAR(100) NOT NULL,\n"+
		"  \"active\" BOOLEAN NOT NULL DEFAULT 1,\n"+
		"  \"deptId\" VARCHAR(36) NULL\n"+
		")", stmts[0])
	assert.Equal(t, `CREATE INDEX "employees_deptId_index" ON "employees" ("deptId")`, stmts[1])
}

func TestCompileCreateTable_MySQLInlinesIndexes(t *testing.T) {
	stmts := NewMySQLGrammar().CompileCreateTable(employeesBlueprint())

	require.Len(t, stmts, 1)
	assert.Contains(t, stmts[0], "INDEX `employees_deptId_index` (`deptId`)")
	assert.Contains(t, stmts[0], "`id` CHAR(36) NOT NULL PRIMARY KEY")
	assert.Contains(t, stmts[0], "ENGINE=InnoDB")
}

func TestCompileCreateTable_Increments(t *testing.T) {
	tests := []struct {
		grammar Grammar
		want    string
	}{
		{NewMySQLGrammar(), "`id` BIGINT UNSIGNED NOT NULL PRIMARY KEY AUTO_INCREMENT"},
		{NewPostgresGrammar(), `"id" BIGSERIAL NOT NULL PRIMARY KEY`},
		{NewSQLiteGrammar(), `"id" INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT`},
	}
	for _, tt := range tests {
		t.Run(tt.grammar.Name(), func(t *testing.T) {
			bp := NewBlueprint("migrations")
			MigrationBlueprint(bp)
			stmts := tt.grammar.CompileCreateTable(bp)
			assert.Contains(t, stmts[0], tt.want)
			for _, col := range MigrationColumns {
				assert.Contains(t, stmts[0], col)
			}
		})
	}
}

func TestCompileForeignKeys(t *testing.T) {
	fk := &ForeignKey{Column: "deptId"}
	fk.References("id").On("departments").OnDelete("SET NULL")

	assert.Equal(t,
		`ALTER TABLE "employees" ADD FOREIGN KEY ("deptId") REFERENCES "departments" ("id") ON DELETE SET NULL`,
		NewPostgresGrammar().CompileAddForeign("employees", fk))
	assert.Empty(t, NewSQLiteGrammar().CompileAddForeign("employees", fk))
}

func TestCompileDropStatements(t *testing.T) {
	assert.Equal(t, `DROP TABLE IF EXISTS "people" CASCADE`, NewPostgresGrammar().CompileDropTable("people"))
	assert.Equal(t, "DROP TABLE IF EXISTS `people`", NewMySQLGrammar().CompileDropTable("people"))
	assert.Equal(t, "ALTER TABLE `people` DROP INDEX `people_name_index`", NewMySQLGrammar().CompileDropIndex("people", "people_name_index"))
	assert.Equal(t, `ALTER TABLE "people" DROP COLUMN "age"`, NewSQLiteGrammar().CompileDropColumn("people", "age"))
}

func TestWrapEscapesQuotes(t *testing.T) {
	assert.Equal(t, `DROP TABLE IF EXISTS "a""b"`, NewSQLiteGrammar().CompileDropTable(`a"b`))
}

func TestGrammarFor(t *testing.T) {
	for _, name := range []string{"mysql", "postgres", "sqlite"} {
		g, err := GrammarFor(name)
		require.NoError(t, err)
		assert.Equal(t, name, g.Name())
	}
	_, err := GrammarFor("oracle")
	assert.Error(t, err)
}
