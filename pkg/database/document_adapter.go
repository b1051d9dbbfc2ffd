// -----------------------------------------------------------------------------
// Document Adapter
// -----------------------------------------------------------------------------
// DocumentAdapter, native join ve transaction desteği olmayan bir doküman
// deposu üzerinde çalışır.
//
// Join emülasyonu: ana sorgu çalıştırılır, LocalKey değerleri toplanır,
// ilişkili collection için tek bir toplu (batched) "ForeignKey in (...)"
// araması yapılır ve sonuç bellekte birleştirilir. Eşleşmeyen satırlar left
// join'de null relation ile döner, inner join'de düşer. Right, full ve cross
// join yanlış semantik üretmemek için NotSupportedError ile reddedilir.
//
// Eşzamanlı oturum sayısı semaphore ile sınırlanır; havuz dolduğunda
// çağrılar bir oturum boşalana kadar bekler.
// -----------------------------------------------------------------------------

package database

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/biyonik/conduit-orm/pkg/database/migration"
)

// StoreOpener, Connect sırasında doküman deposunu açar.
type StoreOpener func(ctx context.Context) (DocumentStore, error)

// DocumentAdapter, DocumentStore üzerinde çalışan adapter'dır.
type DocumentAdapter struct {
	cfg  ConnectionConfig
	opts Options
	open StoreOpener
	sem  *semaphore.Weighted

	mu    sync.RWMutex
	store DocumentStore
}

// NewDocumentAdapter bağlanmamış bir doküman adapter'ı üretir.
func NewDocumentAdapter(cfg ConnectionConfig, open StoreOpener, opts ...Option) *DocumentAdapter {
	cfg = cfg.withDefaults()
	return &DocumentAdapter{
		cfg:  cfg,
		opts: newOptions(opts),
		open: open,
		sem:  semaphore.NewWeighted(int64(cfg.MaxOpenConns)),
	}
}

// NewDocumentAdapterFromStore, açık bir store'u saran bağlı adapter üretir.
func NewDocumentAdapterFromStore(name string, store DocumentStore, opts ...Option) *DocumentAdapter {
	a := NewDocumentAdapter(ConnectionConfig{Name: name, Driver: "memory"}, func(context.Context) (DocumentStore, error) {
		return store, nil
	}, opts...)
	a.store = store
	return a
}

func (a *DocumentAdapter) Name() string   { return a.cfg.Name }
func (a *DocumentAdapter) Driver() string { return a.cfg.Driver }

// Store altta yatan depoyu döner; bağlı değilse nil.
func (a *DocumentAdapter) Store() DocumentStore {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.store
}

func (a *DocumentAdapter) Connect(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.store != nil {
		return nil
	}
	store, err := a.open(ctx)
	if err != nil {
		a.opts.Logger.Error("document store connection failed", "connection", a.cfg.Name, "error", err)
		return &ConnectionError{Connection: a.cfg.Name, Err: err}
	}
	a.store = store
	a.opts.Logger.Info("document store connected", "connection", a.cfg.Name, "driver", a.cfg.Driver, "capabilities", a.Capabilities().String())
	return nil
}

func (a *DocumentAdapter) IsConnected() bool {
	return a.Store() != nil
}

func (a *DocumentAdapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.store == nil {
		return nil
	}
	err := a.store.Close()
	a.store = nil
	return err
}

// Capabilities: transaction yok; inner ve left join toplu arama ile emüle edilir.
func (a *DocumentAdapter) Capabilities() Capabilities {
	return NewCapabilities(false, InnerJoin, LeftJoin)
}

// Compile Expression'ı doğrular ve bir kopyasını DocumentQuery olarak paketler.
func (a *DocumentAdapter) Compile(expr *Expression) (NativeQuery, error) {
	c := expr.Clone()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	caps := a.Capabilities()
	for _, j := range c.Joins {
		if !caps.SupportsJoin(j.Type) {
			return nil, &NotSupportedError{Adapter: a.cfg.Driver, Operation: strings.ToLower(string(j.Type)) + " join"}
		}
	}
	return &DocumentQuery{Kind: c.Statement, Collection: c.Table, Expr: c}, nil
}

// Execute sorguyu depoya karşı çalıştırır. Havuz doluysa bekler.
func (a *DocumentAdapter) Execute(ctx context.Context, query NativeQuery) (*Result, error) {
	store := a.Store()
	if store == nil {
		return nil, &ConnectionError{Connection: a.cfg.Name}
	}
	q, ok := query.(*DocumentQuery)
	if !ok {
		return nil, NewValidationError("query", "%s adapter cannot execute %T", a.cfg.Driver, query)
	}

	if err := a.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer a.sem.Release(1)

	started := time.Now()
	result, err := a.run(ctx, store, q)
	a.opts.observe(a.cfg.Name, q, started, result, err)
	return result, err
}

func (a *DocumentAdapter) run(ctx context.Context, store DocumentStore, q *DocumentQuery) (*Result, error) {
	expr := q.Expr
	switch q.Kind {
	case StatementInsert:
		if err := store.Put(ctx, q.Collection, expr.Documents); err != nil {
			return nil, err
		}
		return &Result{RowsAffected: int64(len(expr.Documents))}, nil

	case StatementSelect:
		return a.selectRows(ctx, store, expr)

	case StatementUpdate, StatementDelete:
		docs, err := a.matching(ctx, store, expr)
		if err != nil {
			return nil, err
		}
		if q.Kind == StatementDelete {
			ids := make([]string, 0, len(docs))
			for _, doc := range docs {
				if id, ok := DocumentID(doc); ok {
					ids = append(ids, id)
				}
			}
			if err := store.Delete(ctx, q.Collection, ids); err != nil {
				return nil, err
			}
			return &Result{RowsAffected: int64(len(ids))}, nil
		}

		for _, doc := range docs {
			for k, v := range expr.Changes {
				doc[k] = cloneValue(v)
			}
		}
		if err := store.Put(ctx, q.Collection, docs); err != nil {
			return nil, err
		}
		return &Result{RowsAffected: int64(len(docs))}, nil
	}
	return nil, NewValidationError("statement", "unknown statement %q", q.Kind)
}

func (a *DocumentAdapter) matching(ctx context.Context, store DocumentStore, expr *Expression) ([]Row, error) {
	return a.filter(ctx, store, expr.Table, expr.Wheres)
}

func (a *DocumentAdapter) filter(ctx context.Context, store DocumentStore, table string, wheres []WhereClause) ([]Row, error) {
	preds, err := compilePredicates(wheres)
	if err != nil {
		return nil, err
	}
	docs, err := store.All(ctx, table)
	if err != nil {
		return nil, err
	}
	return filterRows(docs, preds), nil
}

func filterRows(rows []Row, preds []predicate) []Row {
	out := rows[:0]
	for _, row := range rows {
		if matches(row, preds) {
			out = append(out, row)
		}
	}
	return out
}

func (a *DocumentAdapter) selectRows(ctx context.Context, store DocumentStore, expr *Expression) (*Result, error) {
	before, after := splitJoinedWheres(expr)

	rows, err := a.filter(ctx, store, expr.Table, before)
	if err != nil {
		return nil, err
	}

	for _, join := range expr.Joins {
		rows, err = a.join(ctx, store, rows, join)
		if err != nil {
			return nil, err
		}
	}

	if len(after) > 0 {
		preds, err := compilePredicates(after)
		if err != nil {
			return nil, err
		}
		rows = filterRows(rows, preds)
	}

	if expr.Aggregate != nil {
		return &Result{Rows: []Row{{AggregateAlias: aggregateRows(rows, expr.Aggregate)}}}, nil
	}

	sortRows(rows, expr.Orders)

	if expr.Offset > 0 {
		if expr.Offset >= len(rows) {
			rows = rows[:0]
		} else {
			rows = rows[expr.Offset:]
		}
	}
	if expr.Limit > 0 && expr.Limit < len(rows) {
		rows = rows[:expr.Limit]
	}

	return &Result{Rows: project(rows, expr)}, nil
}

// splitJoinedWheres join edilmiş kolonlara değen clause'ları join
// sonrasına ayırır; primary tablo clause'ları önce çalışıp toplu aramayı
// daraltır. Zincir soldan sağa katlandığı için bölme yalnızca bütün
// clause'lar AND ile bağlıysa yapılır, aksi halde zincirin tamamı join
// sonrasında değerlendirilir.
func splitJoinedWheres(expr *Expression) (before, after []WhereClause) {
	if len(expr.Joins) == 0 {
		return expr.Wheres, nil
	}

	joined, allAnd := false, true
	for i, w := range expr.Wheres {
		if referencesJoin(w.Column, expr.Joins) {
			joined = true
		}
		if i > 0 && w.Boolean == BooleanOr {
			allAnd = false
		}
	}
	switch {
	case !joined:
		return expr.Wheres, nil
	case !allAnd:
		return nil, expr.Wheres
	}

	for _, w := range expr.Wheres {
		if referencesJoin(w.Column, expr.Joins) {
			after = append(after, w)
		} else {
			before = append(before, w)
		}
	}
	return before, after
}

// referencesJoin kolon "prefix.kolon" ya da "prefix_kolon" biçimindeyse true döner.
func referencesJoin(column string, joins []JoinClause) bool {
	for _, j := range joins {
		if strings.HasPrefix(column, j.Prefix+".") || strings.HasPrefix(column, PrefixedColumn(j.Prefix, "")) {
			return true
		}
	}
	return false
}

// join tek bir toplu arama ile ilişkili dokümanları getirir ve satırlara
// Prefix_kolon anahtarlarıyla ekler. Birden fazla eşleşme SQL'deki gibi
// satırı çoğaltır.
func (a *DocumentAdapter) join(ctx context.Context, store DocumentStore, rows []Row, join JoinClause) ([]Row, error) {
	keys := make([]any, 0, len(rows))
	seen := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		v := row[join.LocalKey]
		if v == nil {
			continue
		}
		k := stringify(v)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, v)
	}

	related := []Row{}
	if len(keys) > 0 {
		lookup := NewExpression(join.Table)
		lookup.Wheres = []WhereClause{{Column: join.ForeignKey, Operator: OpIn, Value: keys, Boolean: BooleanAnd}}
		var err error
		related, err = a.matching(ctx, store, lookup)
		if err != nil {
			return nil, fmt.Errorf("join lookup on %s failed: %w", join.Table, err)
		}
	}

	byKey := make(map[string][]Row, len(related))
	for _, r := range related {
		if v := r[join.ForeignKey]; v != nil {
			k := stringify(v)
			byKey[k] = append(byKey[k], r)
		}
	}

	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		var matched []Row
		if v := row[join.LocalKey]; v != nil {
			matched = byKey[stringify(v)]
		}
		if len(matched) == 0 {
			if join.Type == InnerJoin {
				continue
			}
			out = append(out, withRelated(row, join, nil))
			continue
		}
		for _, r := range matched {
			out = append(out, withRelated(row, join, r))
		}
	}
	return out, nil
}

func withRelated(row Row, join JoinClause, related Row) Row {
	out := cloneRow(row)
	columns := join.Columns
	if len(columns) == 0 {
		for k := range related {
			columns = append(columns, k)
		}
	}
	for _, c := range columns {
		var v any
		if related != nil {
			v = cloneValue(related[c])
		}
		out[PrefixedColumn(join.Prefix, c)] = v
	}
	return out
}

// project select kolonlarını uygular; join kolonları her zaman kalır.
func project(rows []Row, expr *Expression) []Row {
	if len(expr.Columns) == 0 {
		return rows
	}
	out := make([]Row, len(rows))
	for i, row := range rows {
		p := make(Row, len(expr.Columns))
		for _, c := range expr.Columns {
			key := c.Name
			if c.Alias != "" {
				key = c.Alias
			}
			p[key] = lookup(row, c.Name)
		}
		for _, j := range expr.Joins {
			prefix := j.Prefix + PrefixSeparator
			for k, v := range row {
				if strings.HasPrefix(k, prefix) {
					p[k] = v
				}
			}
		}
		out[i] = p
	}
	return out
}

// BeginTransaction doküman deposunda desteklenmez.
func (a *DocumentAdapter) BeginTransaction(context.Context) (TransactionHandle, error) {
	return nil, &NotSupportedError{Adapter: a.cfg.Driver, Operation: "transactions"}
}

func (a *DocumentAdapter) Schema() migration.Schema {
	return &documentSchema{adapter: a}
}
