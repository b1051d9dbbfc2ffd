package migration

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockSchema(t *testing.T, grammar Grammar) (*SQLSchema, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSQLSchema(db, grammar, nil), mock
}

func TestSQLSchema_CreateMigrationSchema(t *testing.T) {
	schema, mock := newMockSchema(t, NewSQLiteGrammar())
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM sqlite_master")).
		WithArgs("migrations").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(regexp.QuoteMeta(`CREATE TABLE "migrations"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, schema.CreateMigrationSchema(ctx, "migrations"))

	// Tablo varsa ikinci çağrı DDL çalıştırmaz.
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM sqlite_master")).
		WithArgs("migrations").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	require.NoError(t, schema.CreateMigrationSchema(ctx, "migrations"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLSchema_AlterTable(t *testing.T) {
	schema, mock := newMockSchema(t, NewPostgresGrammar())

	mock.ExpectExec(regexp.QuoteMeta(`ALTER TABLE "people" ADD COLUMN "nickname" VARCHAR(50) NULL`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`ALTER TABLE "people" DROP COLUMN "legacy"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`CREATE UNIQUE INDEX "people_nickname_unique" ON "people" ("nickname")`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := schema.AlterTable(context.Background(), "people", func(t *Blueprint) {
		t.String("nickname", 50).Nullable()
		t.DropColumn("legacy")
		t.Unique("nickname")
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLSchema_AlterTableForeignKeyOnSQLite(t *testing.T) {
	schema, _ := newMockSchema(t, NewSQLiteGrammar())

	err := schema.AlterTable(context.Background(), "employees", func(t *Blueprint) {
		t.Foreign("deptId").References("id").On("departments")
	})
	assert.ErrorIs(t, err, ErrNotImplemented)
}

func TestSQLSchema_DropAllTables(t *testing.T) {
	schema, mock := newMockSchema(t, NewMySQLGrammar())

	mock.ExpectQuery(regexp.QuoteMeta("SELECT table_name FROM information_schema.tables")).
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}).AddRow("people").AddRow("migrations"))
	mock.ExpectExec(regexp.QuoteMeta("DROP TABLE IF EXISTS `people`")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("DROP TABLE IF EXISTS `migrations`")).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, schema.DropAllTables(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLSchema_ErrorsAreWrapped(t *testing.T) {
	schema, mock := newMockSchema(t, NewSQLiteGrammar())
	boom := errors.New("disk full")

	mock.ExpectExec(regexp.QuoteMeta(`DROP TABLE IF EXISTS "people"`)).WillReturnError(boom)

	err := schema.DropTable(context.Background(), "people")
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "people")
}

func TestSQLSchema_DatabaseOperationsNotImplemented(t *testing.T) {
	schema, _ := newMockSchema(t, NewSQLiteGrammar())
	ctx := context.Background()

	assert.ErrorIs(t, schema.CreateDatabase(ctx, "shop"), ErrNotImplemented)
	assert.ErrorIs(t, schema.DropDatabase(ctx, "shop"), ErrNotImplemented)
	_, err := schema.DatabaseExists(ctx, "shop")
	assert.ErrorIs(t, err, ErrNotImplemented)
}
