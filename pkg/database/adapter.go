// -----------------------------------------------------------------------------
// Adapter - Backend Başına Derleyici ve Çalıştırıcı
// -----------------------------------------------------------------------------
// Her adapter tek bir backend bağlantısını (pool) sahiplenir, Expression'ı
// native sorguya derler ve çalıştırır. Builder bir join'i derlemeden veya
// transaction açmadan önce Capabilities() ile adapter'ın yeteneklerini okur.
//
// İki varyant vardır:
//   - SQLAdapter:      MySQL / PostgreSQL / SQLite (database/sql üzerinden)
//   - DocumentAdapter: Redis veya in-memory doküman deposu
// -----------------------------------------------------------------------------

package database

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/biyonik/conduit-orm/pkg/database/migration"
	"github.com/biyonik/conduit-orm/pkg/events"
)

// Capabilities, adapter'ın sunduğu opsiyonel operasyonlardır.
type Capabilities struct {
	SupportsTransactions bool
	SupportsJoins        map[JoinType]bool
}

// NewCapabilities capability seti üretir.
func NewCapabilities(transactions bool, joins ...JoinType) Capabilities {
	c := Capabilities{SupportsTransactions: transactions, SupportsJoins: make(map[JoinType]bool, len(joins))}
	for _, j := range joins {
		c.SupportsJoins[j] = true
	}
	return c
}

// SupportsJoin verilen join tipinin desteklenip desteklenmediğini söyler.
func (c Capabilities) SupportsJoin(t JoinType) bool {
	return c.SupportsJoins[t]
}

// String, log'lar için "tx=true joins=[CROSS INNER LEFT]" üretir.
func (c Capabilities) String() string {
	joins := make([]string, 0, len(c.SupportsJoins))
	for j, ok := range c.SupportsJoins {
		if ok {
			joins = append(joins, string(j))
		}
	}
	sort.Strings(joins)
	return fmt.Sprintf("tx=%t joins=[%s]", c.SupportsTransactions, strings.Join(joins, " "))
}

// NativeQuery, adapter'ın derlediği ve çalıştırabildiği sorgudur.
type NativeQuery interface {
	Statement() StatementKind
	String() string
}

// SQLQuery, SQL adapter'larının native sorgusudur.
type SQLQuery struct {
	Kind StatementKind
	SQL  string
	Args []any
}

func (q *SQLQuery) Statement() StatementKind { return q.Kind }
func (q *SQLQuery) String() string           { return q.SQL }

// DocumentQuery, doküman adapter'ının native sorgusudur. Doküman deposu
// sorgu dili olmadığı için Expression'ın bir kopyasını taşır.
type DocumentQuery struct {
	Kind       StatementKind
	Collection string
	Expr       *Expression
}

func (q *DocumentQuery) Statement() StatementKind { return q.Kind }
func (q *DocumentQuery) String() string {
	return fmt.Sprintf("%s %s (%d filters, %d joins)", q.Kind, q.Collection, len(q.Expr.Wheres), len(q.Expr.Joins))
}

// Result, bir native sorgunun sonucudur.
type Result struct {
	Rows         []Row
	RowsAffected int64
}

// Session, native sorgu çalıştırabilen her şeydir: adapter'ın kendisi
// (pool) veya sabitlenmiş bir transaction.
type Session interface {
	Execute(ctx context.Context, query NativeQuery) (*Result, error)
}

// TransactionHandle tek bir pool bağlantısını sabitler. Handle'a bağlı
// builder'lar aynı bağlantı üzerinde çalışır.
type TransactionHandle interface {
	Session
	Commit() error
	Rollback() error
}

// Adapter, bir backend bağlantısının derleyici ve çalıştırıcısıdır.
type Adapter interface {
	Session

	// Name bağlantı adıdır (registry anahtarı).
	Name() string
	// Driver backend sürücüsüdür ("mysql", "postgres", "sqlite", "redis", ...).
	Driver() string

	Connect(ctx context.Context) error
	IsConnected() bool
	// Close kaynakları serbest bırakır; birden fazla çağrılabilir.
	Close() error

	Capabilities() Capabilities

	// Compile, Expression'ı Statement alanına göre native sorguya derler.
	Compile(expr *Expression) (NativeQuery, error)

	// BeginTransaction, transaction desteklemeyen adapter'larda
	// NotSupportedError döner.
	BeginTransaction(ctx context.Context) (TransactionHandle, error)

	Schema() migration.Schema
}

// Options, adapter'ların ortak yapılandırmasıdır.
type Options struct {
	Logger     *slog.Logger
	Dispatcher *events.Dispatcher
	LogQueries bool
}

// Option, Options üzerinde değişiklik yapan fonksiyondur.
type Option func(*Options)

// WithLogger adapter'a logger enjekte eder.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) { o.Logger = logger }
}

// WithDispatcher, çalıştırılan her sorgu için query.executed event'i
// yayınlanacak dispatcher'ı ayarlar.
func WithDispatcher(d *events.Dispatcher) Option {
	return func(o *Options) { o.Dispatcher = d }
}

// WithQueryLogging her sorgunun debug seviyesinde loglanmasını açar.
func WithQueryLogging(enabled bool) Option {
	return func(o *Options) { o.LogQueries = enabled }
}

func newOptions(opts []Option) Options {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o
}

// observe, bir sorgunun sonucunu loglar ve query.executed event'ini yayınlar.
func (o Options) observe(connection string, query NativeQuery, started time.Time, result *Result, err error) {
	elapsed := time.Since(started)
	if err != nil {
		o.Logger.Error("query failed",
			"connection", connection,
			"query", query.String(),
			"error", err,
		)
	} else if o.LogQueries {
		o.Logger.Debug("query executed",
			"connection", connection,
			"query", query.String(),
			"args", queryArgs(query),
			"duration", elapsed,
		)
	}

	if o.Dispatcher == nil {
		return
	}
	payload := events.QueryExecuted{
		Connection: connection,
		Statement:  string(query.Statement()),
		Query:      query.String(),
		Duration:   elapsed,
		Err:        err,
	}
	if result != nil {
		payload.Rows = len(result.Rows)
		payload.RowsAffected = result.RowsAffected
	}
	_ = o.Dispatcher.Dispatch(events.NewQueryExecutedEvent(payload))
}

func queryArgs(query NativeQuery) []any {
	if q, ok := query.(*SQLQuery); ok {
		return q.Args
	}
	return nil
}
