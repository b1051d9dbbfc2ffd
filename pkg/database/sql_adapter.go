// -----------------------------------------------------------------------------
// SQL Adapter
// -----------------------------------------------------------------------------
// SQLAdapter, tek bir *sql.DB havuzunu sahiplenir ve Expression'ları lehçe
// grammar'ı ile derleyip çalıştırır. Join'ler native olarak derlenir; ilişkili
// kolonlar Prefix_kolon alias'ıyla döner. Object/array cast'li kolonlar
// yazılırken JSON'a encode edilir.
// -----------------------------------------------------------------------------

package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/biyonik/conduit-orm/pkg/database/migration"
)

// SQLAdapter, database/sql üzerinden çalışan adapter'dır.
type SQLAdapter struct {
	cfg     ConnectionConfig
	grammar Grammar
	opts    Options

	mu sync.RWMutex
	db *sql.DB
}

// NewSQLAdapter bağlanmamış bir SQL adapter'ı üretir; Connect ile açılır.
func NewSQLAdapter(cfg ConnectionConfig, grammar Grammar, opts ...Option) *SQLAdapter {
	return &SQLAdapter{cfg: cfg, grammar: grammar, opts: newOptions(opts)}
}

// NewSQLAdapterFromDB, zaten açılmış bir havuzu saran bağlı bir adapter
// üretir (testler, dışarıda yönetilen havuzlar).
func NewSQLAdapterFromDB(name string, db *sql.DB, grammar Grammar, opts ...Option) *SQLAdapter {
	a := NewSQLAdapter(ConnectionConfig{Name: name, Driver: grammar.Name()}, grammar, opts...)
	a.db = db
	return a
}

func (a *SQLAdapter) Name() string   { return a.cfg.Name }
func (a *SQLAdapter) Driver() string { return a.cfg.Driver }

// Grammar adapter'ın SQL lehçesidir.
func (a *SQLAdapter) Grammar() Grammar { return a.grammar }

// Connect havuzu açar. Zaten bağlıysa hiçbir şey yapmaz.
func (a *SQLAdapter) Connect(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.db != nil {
		return nil
	}

	a.opts.Logger.Info("connecting to database",
		"connection", a.cfg.Name,
		"dsn", DescribeDSN(a.cfg.Driver, a.cfg.DSN),
	)

	db, err := Connect(ctx, a.cfg)
	if err != nil {
		a.opts.Logger.Error("database connection failed", "connection", a.cfg.Name, "error", err)
		return err
	}
	a.db = db

	a.opts.Logger.Info("database connected", "connection", a.cfg.Name, "capabilities", a.Capabilities().String())
	return nil
}

func (a *SQLAdapter) IsConnected() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.db != nil
}

// Close havuzu kapatır; ikinci çağrı no-op'tur.
func (a *SQLAdapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db = nil
	return err
}

// DB altta yatan havuzu döner; bağlı değilse nil.
func (a *SQLAdapter) DB() *sql.DB {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.db
}

func (a *SQLAdapter) Capabilities() Capabilities {
	return a.grammar.Capabilities()
}

// Compile Expression'ı statement tipine göre SQL'e derler.
func (a *SQLAdapter) Compile(expr *Expression) (NativeQuery, error) {
	var (
		query string
		args  []any
		err   error
	)

	switch expr.Statement {
	case StatementSelect:
		query, args, err = a.grammar.CompileSelect(expr)
	case StatementInsert, StatementUpdate:
		encoded, encErr := encodeJSONColumns(expr)
		if encErr != nil {
			return nil, encErr
		}
		if expr.Statement == StatementInsert {
			query, args, err = a.grammar.CompileInsert(encoded)
		} else {
			query, args, err = a.grammar.CompileUpdate(encoded)
		}
	case StatementDelete:
		query, args, err = a.grammar.CompileDelete(expr)
	default:
		return nil, NewValidationError("statement", "unknown statement %q", expr.Statement)
	}
	if err != nil {
		return nil, err
	}
	return &SQLQuery{Kind: expr.Statement, SQL: query, Args: args}, nil
}

// Execute sorguyu havuzdan alınan bir bağlantıda çalıştırır.
func (a *SQLAdapter) Execute(ctx context.Context, query NativeQuery) (*Result, error) {
	db := a.DB()
	if db == nil {
		return nil, &ConnectionError{Connection: a.cfg.Name}
	}
	return a.run(ctx, db, query)
}

func (a *SQLAdapter) run(ctx context.Context, exec QueryExecutor, query NativeQuery) (*Result, error) {
	q, ok := query.(*SQLQuery)
	if !ok {
		return nil, NewValidationError("query", "%s adapter cannot execute %T", a.cfg.Driver, query)
	}

	started := time.Now()
	result, err := a.exec(ctx, exec, q)
	a.opts.observe(a.cfg.Name, q, started, result, err)
	return result, err
}

func (a *SQLAdapter) exec(ctx context.Context, exec QueryExecutor, q *SQLQuery) (*Result, error) {
	if q.Kind == StatementSelect {
		rows, err := exec.QueryContext(ctx, q.SQL, q.Args...)
		if err != nil {
			return nil, fmt.Errorf("failed to execute SQL: %w", err)
		}
		res, err := rowsToMaps(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to read rows: %w", err)
		}
		return &Result{Rows: res}, nil
	}

	res, err := exec.ExecContext(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute SQL: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		affected = -1
	}
	return &Result{RowsAffected: affected}, nil
}

// Raw, ham bir SELECT sorgusunu pass-through olarak çalıştırır. Sorgu
// ayrıştırılmaz; parametreler her zaman bağlanır.
func (a *SQLAdapter) Raw(ctx context.Context, query string, args ...any) ([]Row, error) {
	res, err := a.Execute(ctx, &SQLQuery{Kind: StatementSelect, SQL: query, Args: args})
	if err != nil {
		return nil, err
	}
	return res.Rows, nil
}

// BeginTransaction havuzdan bir bağlantı sabitleyen transaction açar.
func (a *SQLAdapter) BeginTransaction(ctx context.Context) (TransactionHandle, error) {
	db := a.DB()
	if db == nil {
		return nil, &ConnectionError{Connection: a.cfg.Name}
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	a.opts.Logger.Debug("transaction started", "connection", a.cfg.Name)
	return &sqlTransaction{tx: tx, adapter: a}, nil
}

// ExecContext schema katmanı için havuz üzerinde komut çalıştırır.
func (a *SQLAdapter) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	db := a.DB()
	if db == nil {
		return nil, &ConnectionError{Connection: a.cfg.Name}
	}
	return db.ExecContext(ctx, query, args...)
}

// QueryContext schema katmanı için havuz üzerinde sorgu çalıştırır.
func (a *SQLAdapter) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	db := a.DB()
	if db == nil {
		return nil, &ConnectionError{Connection: a.cfg.Name}
	}
	return db.QueryContext(ctx, query, args...)
}

// Schema lehçeye uygun DDL grammar'ı ile SQLSchema döner.
func (a *SQLAdapter) Schema() migration.Schema {
	grammar, err := migration.GrammarFor(a.grammar.Name())
	if err != nil {
		return unsupportedSchema{err: err}
	}
	return migration.NewSQLSchema(a, grammar, a.opts.Logger)
}

// encodeJSONColumns, JSON kolonlarındaki native değerleri JSON string'e
// çevirir. Kaynak Expression değişmez.
func encodeJSONColumns(expr *Expression) (*Expression, error) {
	if len(expr.JSONColumns) == 0 {
		return expr, nil
	}

	c := expr.Clone()
	for _, doc := range c.Documents {
		if err := encodeRow(doc, c.JSONColumns); err != nil {
			return nil, err
		}
	}
	if err := encodeRow(c.Changes, c.JSONColumns); err != nil {
		return nil, err
	}
	return c, nil
}

func encodeRow(row Row, columns []string) error {
	for _, col := range columns {
		v, ok := row[col]
		if !ok || v == nil {
			continue
		}
		switch v.(type) {
		case string, []byte:
			continue
		}
		b, err := json.Marshal(v)
		if err != nil {
			return NewValidationError(col, "cannot encode value as JSON: %v", err)
		}
		row[col] = string(b)
	}
	return nil
}

// unsupportedSchema, grammar'ı olmayan lehçeler için her operasyonda
// hata döner.
type unsupportedSchema struct{ err error }

func (s unsupportedSchema) CreateTable(context.Context, string, func(*migration.Blueprint)) error {
	return s.err
}
func (s unsupportedSchema) DropTable(context.Context, string) error             { return s.err }
func (s unsupportedSchema) TableExists(context.Context, string) (bool, error)   { return false, s.err }
func (s unsupportedSchema) DropAllTables(context.Context) error                 { return s.err }
func (s unsupportedSchema) CreateMigrationSchema(context.Context, string) error { return s.err }
func (s unsupportedSchema) CreateDatabase(context.Context, string) error        { return s.err }
func (s unsupportedSchema) DropDatabase(context.Context, string) error          { return s.err }
func (s unsupportedSchema) DatabaseExists(context.Context, string) (bool, error) {
	return false, s.err
}
func (s unsupportedSchema) AlterTable(context.Context, string, func(*migration.Blueprint)) error {
	return s.err
}
