// -----------------------------------------------------------------------------
// Schema - DDL Operations
// -----------------------------------------------------------------------------
// Schema, dış migration runner'ın kullandığı DDL yüzeyidir. Her adapter
// kendi Schema implementasyonunu döner: SQL adapter'ları SQLSchema'yı,
// doküman adapter'ı collection tabanlı bir implementasyonu.
//
// Kullanım:
//
//	schema := manager.Schema("default")
//	err := schema.CreateTable(ctx, "people", func(t *migration.Blueprint) {
//	    t.UUID("id").Primary()
//	    t.String("name", 255)
//	    t.Integer("age")
//	    t.Timestamps()
//	})
// -----------------------------------------------------------------------------

package migration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// ErrNotImplemented, desteklenmeyen schema operasyonları için döner.
var ErrNotImplemented = errors.New("not implemented")

// MigrationColumns, migration bookkeeping tablosunun sabit kolon setidir.
var MigrationColumns = []string{"id", "name", "batch", "checksum", "type", "appliedAt"}

// Schema DDL operasyonlarını tanımlar.
type Schema interface {
	CreateTable(ctx context.Context, name string, build func(*Blueprint)) error
	DropTable(ctx context.Context, name string) error
	TableExists(ctx context.Context, name string) (bool, error)
	AlterTable(ctx context.Context, name string, build func(*Blueprint)) error
	DropAllTables(ctx context.Context) error

	// CreateMigrationSchema bookkeeping tablosunu oluşturur; tablo zaten
	// varsa hiçbir şey yapmaz.
	CreateMigrationSchema(ctx context.Context, name string) error

	CreateDatabase(ctx context.Context, name string) error
	DatabaseExists(ctx context.Context, name string) (bool, error)
	DropDatabase(ctx context.Context, name string) error
}

// MigrationBlueprint bookkeeping tablosunun kolonlarını tanımlar:
// id (auto-increment), name, batch, checksum, type, appliedAt.
func MigrationBlueprint(t *Blueprint) {
	t.Increments("id")
	t.String("name", 255)
	t.String("batch", 255)
	t.String("checksum", 255)
	t.String("type", 255)
	t.Timestamp("appliedAt")
}

// Executor, *sql.DB veya *sql.Tx gibi DDL çalıştırabilen her şeydir.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// SQLSchema, SQL veritabanları için Schema implementasyonudur.
type SQLSchema struct {
	db      Executor
	grammar Grammar
	logger  *slog.Logger
}

// NewSQLSchema creates a new SQLSchema instance.
func NewSQLSchema(db Executor, grammar Grammar, logger *slog.Logger) *SQLSchema {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &SQLSchema{db: db, grammar: grammar, logger: logger}
}

// CreateTable creates a new table.
func (s *SQLSchema) CreateTable(ctx context.Context, name string, build func(*Blueprint)) error {
	bp := NewBlueprint(name)
	build(bp)

	for _, stmt := range s.grammar.CompileCreateTable(bp) {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create table %s: %w", name, err)
		}
	}

	s.logger.Info("created table", "table", name)
	return nil
}

// DropTable drops a table if it exists.
func (s *SQLSchema) DropTable(ctx context.Context, name string) error {
	if _, err := s.db.ExecContext(ctx, s.grammar.CompileDropTable(name)); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", name, err)
	}

	s.logger.Info("dropped table", "table", name)
	return nil
}

// TableExists checks if a table exists.
func (s *SQLSchema) TableExists(ctx context.Context, name string) (bool, error) {
	rows, err := s.db.QueryContext(ctx, s.grammar.CompileTableExists(), name)
	if err != nil {
		return false, fmt.Errorf("failed to check table %s: %w", name, err)
	}
	defer rows.Close()

	var count int
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			return false, err
		}
	}
	return count > 0, rows.Err()
}

// AlterTable modifies an existing table: adds columns, drops columns,
// adds indexes and foreign keys in that order.
func (s *SQLSchema) AlterTable(ctx context.Context, name string, build func(*Blueprint)) error {
	bp := NewBlueprint(name)
	build(bp)

	var stmts []string
	for _, column := range bp.columns {
		stmts = append(stmts, s.grammar.CompileAddColumn(name, column))
	}
	for _, column := range bp.drops {
		stmts = append(stmts, s.grammar.CompileDropColumn(name, column))
	}
	for _, index := range bp.indexes {
		stmts = append(stmts, s.grammar.CompileAddIndex(name, index))
	}
	for _, fk := range bp.foreign {
		stmt := s.grammar.CompileAddForeign(name, fk)
		if stmt == "" {
			return fmt.Errorf("adding foreign keys on %s with %s: %w", name, s.grammar.Name(), ErrNotImplemented)
		}
		stmts = append(stmts, stmt)
	}

	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to alter table %s: %w", name, err)
		}
	}

	s.logger.Info("altered table", "table", name)
	return nil
}

// DropAllTables drops every user table of the current database/schema.
func (s *SQLSchema) DropAllTables(ctx context.Context) error {
	tables, err := s.listTables(ctx)
	if err != nil {
		return err
	}
	for _, table := range tables {
		if err := s.DropTable(ctx, table); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLSchema) listTables(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, s.grammar.CompileListTables())
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

// CreateMigrationSchema creates the migrations tracking table.
func (s *SQLSchema) CreateMigrationSchema(ctx context.Context, name string) error {
	exists, err := s.TableExists(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return s.CreateTable(ctx, name, MigrationBlueprint)
}

func (s *SQLSchema) CreateDatabase(context.Context, string) error {
	return fmt.Errorf("create database: %w", ErrNotImplemented)
}

func (s *SQLSchema) DatabaseExists(context.Context, string) (bool, error) {
	return false, fmt.Errorf("database exists: %w", ErrNotImplemented)
}

func (s *SQLSchema) DropDatabase(context.Context, string) error {
	return fmt.Errorf("drop database: %w", ErrNotImplemented)
}
