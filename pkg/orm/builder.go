// -----------------------------------------------------------------------------
// Query Builder
// -----------------------------------------------------------------------------
// Builder, Expression ve Adapter üzerinde akıcı (fluent) bir façade'dır.
// Zincir metodları builder'ın özel Expression'ını genişletir; terminal
// metodlar (Get, First, Insert, Update, Delete, Count, ...) Expression'ın
// bir kopyasını adapter'a verip çalıştırır.
//
// Durumlar: building → executed. Executed bir builder zincire devam
// edemez; yeni bir varyant için Clone() kullanılır:
//
//	base := manager.Query(Employees).OrderBy("name", "asc")
//	older, _ := base.Clone().Where("age", ">", 30).Get(ctx)
//	all, _ := base.Clone().Get(ctx) // older'dan etkilenmez
//
// Zincir metodları hata dönemez; ilk hata builder'a kaydedilir ve her
// terminal metod ile Err() tarafından döndürülür.
// -----------------------------------------------------------------------------

package orm

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/biyonik/conduit-orm/pkg/cache"
	"github.com/biyonik/conduit-orm/pkg/database"
	"github.com/biyonik/conduit-orm/pkg/events"
)

type builderState int

const (
	stateBuilding builderState = iota
	stateExecuted
)

// IDGenerator insert sırasında id'si olmayan kayıtlar için id üretir.
type IDGenerator func() any

// NewUUID varsayılan IDGenerator'dır (UUID v4).
func NewUUID() any {
	return uuid.NewString()
}

// runtime, aynı Manager'dan üretilen builder'ların paylaştığı ayarlardır.
type runtime struct {
	logger     *slog.Logger
	dispatcher *events.Dispatcher
	idgen      IDGenerator
	now        func() time.Time
	cache      cache.Cache
}

// Builder tek bir model tipi için sorgu kurar ve çalıştırır.
type Builder struct {
	def     *Definition
	adapter database.Adapter
	tx      *txScope
	rt      runtime

	expr    *database.Expression
	related map[string]*Definition
	eager   []string
	err     error
	state   builderState

	cacheTTL time.Duration
}

// NewBuilder def için adapter'a bağlı bir builder üretir. Çoğu durumda
// Manager.Builder tercih edilir.
func NewBuilder(def *Definition, adapter database.Adapter, opts ...Option) *Builder {
	s := newSettings(opts)
	return newBuilder(def, adapter, s.runtime())
}

func newBuilder(def *Definition, adapter database.Adapter, rt runtime) *Builder {
	b := &Builder{
		def:     def,
		adapter: adapter,
		rt:      rt,
		related: make(map[string]*Definition),
	}
	if def == nil {
		b.expr = database.NewExpression("")
		return b.fail(database.NewValidationError("model", "builder requires a model definition"))
	}
	b.expr = database.NewExpression(def.Table)
	b.expr.JSONColumns = def.JSONColumns()
	if adapter == nil {
		return b.fail(&database.ConnectionError{Err: fmt.Errorf("no adapter bound for %s", def.Table)})
	}
	return b
}

func (b *Builder) fail(err error) *Builder {
	if b.err == nil {
		b.err = err
	}
	return b
}

// mutable zincir metodlarının başında çağrılır.
func (b *Builder) mutable() bool {
	if b.state == stateExecuted {
		b.fail(database.NewValidationError(b.def.Table, "builder already executed; use Clone() to build a new query"))
		return false
	}
	return b.err == nil
}

// Err zincir sırasında kaydedilen ilk hatayı döner.
func (b *Builder) Err() error { return b.err }

// Definition builder'ın modelidir.
func (b *Builder) Definition() *Definition { return b.def }

// Adapter builder'ın bağlı olduğu adapter'dır.
func (b *Builder) Adapter() database.Adapter { return b.adapter }

// InTransaction builder henüz bitmemiş bir transaction'a bağlıysa true döner.
func (b *Builder) InTransaction() bool { return b.activeTx() != nil }

// Clone bağımsız Expression'a sahip yeni bir building builder döner.
func (b *Builder) Clone() *Builder {
	return &Builder{
		def:     b.def,
		adapter: b.adapter,
		tx:      b.tx,
		rt:      b.rt,
		expr:    b.expr.Clone(),
		related: maps.Clone(b.related),
		eager:   slices.Clone(b.eager),
		err:     b.err,
		state:   stateBuilding,

		cacheTTL: b.cacheTTL,
	}
}

// relatedBuilder aynı bağlantı ve transaction üzerinde başka bir model için
// builder üretir.
func (b *Builder) relatedBuilder(def *Definition) *Builder {
	rb := newBuilder(def, b.adapter, b.rt)
	rb.tx = b.tx
	return rb
}

// SetIDGenerator insert'te kullanılacak id üreticisini değiştirir. nil id
// üretimini kapatır (auto-increment tablolar).
func (b *Builder) SetIDGenerator(fn IDGenerator) *Builder {
	b.rt.idgen = fn
	return b
}

// -----------------------------------------------------------------------------
// WHERE
// -----------------------------------------------------------------------------

// Where AND ile bağlanan bir koşul ekler.
//
// Kullanım:
//
//	Where("name", "Alice")          // name = 'Alice'
//	Where("age", ">", 30)           // age > 30
//	Where("deptId", nil)            // deptId IS NULL
func (b *Builder) Where(column string, args ...any) *Builder {
	return b.where(database.BooleanAnd, column, args)
}

// OrWhere OR ile bağlanan bir koşul ekler.
func (b *Builder) OrWhere(column string, args ...any) *Builder {
	return b.where(database.BooleanOr, column, args)
}

func (b *Builder) where(boolean database.Boolean, column string, args []any) *Builder {
	var (
		op    database.Operator
		value any
	)
	switch len(args) {
	case 1:
		op, value = database.OpEqual, args[0]
		if value == nil {
			op = database.OpIsNull
		}
	case 2:
		parsed, err := parseOperator(args[0])
		if err != nil {
			return b.fail(err)
		}
		op, value = parsed, args[1]
	default:
		return b.fail(database.NewValidationError(column, "where expects (column, value) or (column, operator, value), got %d arguments", len(args)))
	}
	return b.addWhere(database.WhereClause{Column: column, Operator: op, Value: value, Boolean: boolean})
}

func parseOperator(v any) (database.Operator, error) {
	switch op := v.(type) {
	case database.Operator:
		return database.ParseOperator(string(op))
	case string:
		return database.ParseOperator(op)
	}
	return "", database.NewValidationError("operator", "operator must be a string, got %T", v)
}

func (b *Builder) addWhere(clause database.WhereClause) *Builder {
	if !b.mutable() {
		return b
	}
	normalized, err := database.ValidateClause(clause)
	if err != nil {
		return b.fail(err)
	}
	b.expr.Wheres = append(b.expr.Wheres, normalized)
	return b
}

func (b *Builder) WhereIn(column string, values any) *Builder {
	return b.addWhere(database.WhereClause{Column: column, Operator: database.OpIn, Value: values, Boolean: database.BooleanAnd})
}

func (b *Builder) WhereNotIn(column string, values any) *Builder {
	return b.addWhere(database.WhereClause{Column: column, Operator: database.OpNotIn, Value: values, Boolean: database.BooleanAnd})
}

func (b *Builder) WhereNull(column string) *Builder {
	return b.addWhere(database.WhereClause{Column: column, Operator: database.OpIsNull, Boolean: database.BooleanAnd})
}

func (b *Builder) WhereNotNull(column string) *Builder {
	return b.addWhere(database.WhereClause{Column: column, Operator: database.OpIsNotNull, Boolean: database.BooleanAnd})
}

// WhereBetween low <= column <= high koşulu ekler.
func (b *Builder) WhereBetween(column string, low, high any) *Builder {
	return b.addWhere(database.WhereClause{Column: column, Operator: database.OpBetween, Value: []any{low, high}, Boolean: database.BooleanAnd})
}

func (b *Builder) WhereNotBetween(column string, low, high any) *Builder {
	return b.addWhere(database.WhereClause{Column: column, Operator: database.OpNotBetween, Value: []any{low, high}, Boolean: database.BooleanAnd})
}

// WhereLike SQL LIKE deseni ile eşleştirir (% ve _ joker karakterleri).
func (b *Builder) WhereLike(column, pattern string) *Builder {
	return b.addWhere(database.WhereClause{Column: column, Operator: database.OpLike, Value: pattern, Boolean: database.BooleanAnd})
}

func (b *Builder) WhereNotLike(column, pattern string) *Builder {
	return b.addWhere(database.WhereClause{Column: column, Operator: database.OpNotLike, Value: pattern, Boolean: database.BooleanAnd})
}

// -----------------------------------------------------------------------------
// ORDER / LIMIT / SELECT
// -----------------------------------------------------------------------------

// OrderBy sıralama ekler. Yön verilmezse artan sıradır. Birden fazla
// OrderBy çağrı sırasıyla birincil, ikincil... anahtar olur.
func (b *Builder) OrderBy(column string, direction ...string) *Builder {
	if !b.mutable() {
		return b
	}
	dir := database.OrderAsc
	if len(direction) > 0 {
		switch strings.ToLower(strings.TrimSpace(direction[0])) {
		case "asc":
		case "desc":
			dir = database.OrderDesc
		default:
			return b.fail(database.NewValidationError(column, "invalid order direction %q", direction[0]))
		}
	}
	b.expr.Orders = append(b.expr.Orders, database.OrderClause{Column: column, Direction: dir})
	return b
}

// Oldest column'a göre artan sıralar.
func (b *Builder) Oldest(column string) *Builder {
	return b.OrderBy(column, "asc")
}

// Latest column'a göre azalan sıralar.
func (b *Builder) Latest(column string) *Builder {
	return b.OrderBy(column, "desc")
}

func (b *Builder) Limit(n int) *Builder {
	if !b.mutable() {
		return b
	}
	if n < 0 {
		return b.fail(database.NewValidationError("limit", "limit must not be negative"))
	}
	b.expr.Limit = n
	return b
}

func (b *Builder) Offset(n int) *Builder {
	if !b.mutable() {
		return b
	}
	if n < 0 {
		return b.fail(database.NewValidationError("offset", "offset must not be negative"))
	}
	b.expr.Offset = n
	return b
}

// Select projeksiyonu ayarlar. "kolon as alias" biçimi desteklenir.
// Seçilmeyen alanlar modelde nil olarak bulunur.
func (b *Builder) Select(columns ...string) *Builder {
	if !b.mutable() {
		return b
	}
	cols := make([]database.Column, 0, len(columns))
	for _, raw := range columns {
		parts := strings.Fields(raw)
		switch {
		case len(parts) == 1:
			cols = append(cols, database.Column{Name: parts[0]})
		case len(parts) == 3 && strings.EqualFold(parts[1], "as"):
			cols = append(cols, database.Column{Name: parts[0], Alias: parts[2]})
		default:
			return b.fail(database.NewValidationError(raw, "invalid select column"))
		}
	}
	b.expr.Columns = cols
	return b
}

// -----------------------------------------------------------------------------
// JOIN
// -----------------------------------------------------------------------------

// Join inner join ekler. İlişkili modelin alanları alias + "_" önekiyle
// seçilir ve sonuçta alias adlı ilişki olarak okunur.
//
//	q.Join(Departments, "deptId", "id", "department")
func (b *Builder) Join(related *Definition, localKey, foreignKey, alias string) *Builder {
	return b.join(database.InnerJoin, related, localKey, foreignKey, alias)
}

func (b *Builder) LeftJoin(related *Definition, localKey, foreignKey, alias string) *Builder {
	return b.join(database.LeftJoin, related, localKey, foreignKey, alias)
}

func (b *Builder) RightJoin(related *Definition, localKey, foreignKey, alias string) *Builder {
	return b.join(database.RightJoin, related, localKey, foreignKey, alias)
}

func (b *Builder) FullJoin(related *Definition, localKey, foreignKey, alias string) *Builder {
	return b.join(database.FullJoin, related, localKey, foreignKey, alias)
}

// CrossJoin kartezyen çarpım üretir; anahtar almaz.
func (b *Builder) CrossJoin(related *Definition, alias string) *Builder {
	return b.join(database.CrossJoin, related, "", "", alias)
}

func (b *Builder) join(kind database.JoinType, related *Definition, localKey, foreignKey, alias string) *Builder {
	if !b.mutable() {
		return b
	}
	if related == nil {
		return b.fail(database.NewValidationError("join", "join requires a related model"))
	}
	if !b.adapter.Capabilities().SupportsJoin(kind) {
		return b.fail(&database.NotSupportedError{
			Adapter:   b.adapter.Driver(),
			Operation: strings.ToLower(string(kind)) + " join",
		})
	}
	if len(related.Fields) == 0 {
		return b.fail(database.NewValidationError(related.Table, "related model declares no fields to select"))
	}
	if alias == "" {
		return b.fail(database.NewValidationError(related.Table, "join requires a result alias"))
	}

	b.expr.Joins = append(b.expr.Joins, database.JoinClause{
		Type:       kind,
		Table:      related.Table,
		Columns:    slices.Clone(related.Fields),
		LocalKey:   localKey,
		ForeignKey: foreignKey,
		Prefix:     alias,
	})
	b.related[alias] = related
	return b
}

// With ilişkileri eager load için işaretler. Her ilişki için ana sorgudan
// sonra tek bir toplu sorgu çalışır.
func (b *Builder) With(relations ...string) *Builder {
	if !b.mutable() {
		return b
	}
	for _, name := range relations {
		if _, ok := b.def.Relationship(name); !ok {
			return b.fail(database.NewValidationError(name, "%s has no relationship named %q", b.def.Table, name))
		}
		if !slices.Contains(b.eager, name) {
			b.eager = append(b.eager, name)
		}
	}
	return b
}

// -----------------------------------------------------------------------------
// INSPECTION
// -----------------------------------------------------------------------------

// Expression builder'ın Expression'ının bir kopyasını döner.
func (b *Builder) Expression() *database.Expression {
	return b.expr.Clone()
}

// ToNative select sorgusunu çalıştırmadan derler.
func (b *Builder) ToNative() (database.NativeQuery, error) {
	if b.err != nil {
		return nil, b.err
	}
	expr := b.expr.Clone()
	expr.Statement = database.StatementSelect
	return b.adapter.Compile(expr)
}

type rawQuerier interface {
	Raw(ctx context.Context, query string, args ...any) ([]database.Row, error)
}

// Raw ham SQL'i builder'ın oturumunda (transaction içindeyse sabitlenmiş
// bağlantıda) çalıştırır. Sadece SQL adapter'larında desteklenir.
func (b *Builder) Raw(ctx context.Context, query string, args ...any) ([]database.Row, error) {
	if b.err != nil {
		return nil, b.err
	}
	if _, ok := b.adapter.(rawQuerier); !ok {
		return nil, &database.NotSupportedError{Adapter: b.adapter.Driver(), Operation: "raw queries"}
	}
	res, err := b.session().Execute(ctx, &database.SQLQuery{Kind: database.StatementSelect, SQL: query, Args: args})
	if err != nil {
		return nil, err
	}
	return res.Rows, nil
}

// -----------------------------------------------------------------------------
// EXECUTION
// -----------------------------------------------------------------------------

func (b *Builder) execute(ctx context.Context, expr *database.Expression) (*database.Result, error) {
	if b.err != nil {
		return nil, b.err
	}
	b.state = stateExecuted

	query, err := b.adapter.Compile(expr)
	if err != nil {
		return nil, err
	}
	return b.session().Execute(ctx, query)
}

func (b *Builder) fetch(ctx context.Context, expr *database.Expression) (*Collection, error) {
	expr.Statement = database.StatementSelect
	raw, err := b.selectRows(ctx, expr)
	if err != nil {
		return nil, err
	}

	rows := database.NewResultFormatter(expr.Joins).Format(raw)
	models := make([]*Model, 0, len(rows))
	for _, row := range rows {
		m, err := hydrate(b.def, row, b, b.related)
		if err != nil {
			return nil, err
		}
		models = append(models, m)
	}

	for _, name := range b.eager {
		if err := b.eagerLoad(ctx, name, models); err != nil {
			return nil, fmt.Errorf("eager load %q failed: %w", name, err)
		}
	}
	return NewCollection(models...), nil
}

// Get sorguyu çalıştırır ve modelleri döner.
func (b *Builder) Get(ctx context.Context) (*Collection, error) {
	return b.fetch(ctx, b.expr.Clone())
}

// All, Get ile aynıdır.
func (b *Builder) All(ctx context.Context) (*Collection, error) {
	return b.Get(ctx)
}

// First ilk modeli döner; satır yoksa nil, nil.
func (b *Builder) First(ctx context.Context) (*Model, error) {
	expr := b.expr.Clone()
	expr.Limit = 1
	c, err := b.fetch(ctx, expr)
	if err != nil {
		return nil, err
	}
	return c.First(), nil
}

// FirstOrFail First gibidir; satır yoksa NotFoundError döner.
func (b *Builder) FirstOrFail(ctx context.Context) (*Model, error) {
	m, err := b.First(ctx)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, &database.NotFoundError{Table: b.def.Table}
	}
	return m, nil
}

// Find birincil anahtara göre modeli döner; yoksa nil, nil.
func (b *Builder) Find(ctx context.Context, id any) (*Model, error) {
	return b.Clone().Where(b.def.primaryKey(), id).First(ctx)
}

// FindOrFail Find gibidir; kayıt yoksa NotFoundError döner.
func (b *Builder) FindOrFail(ctx context.Context, id any) (*Model, error) {
	return b.Clone().Where(b.def.primaryKey(), id).FirstOrFail(ctx)
}

// Exists en az bir satır eşleşiyorsa true döner.
func (b *Builder) Exists(ctx context.Context) (bool, error) {
	expr := b.expr.Clone()
	expr.Statement = database.StatementSelect
	expr.Limit = 1
	res, err := b.execute(ctx, expr)
	if err != nil {
		return false, err
	}
	return len(res.Rows) > 0, nil
}

// -----------------------------------------------------------------------------
// AGGREGATES
// -----------------------------------------------------------------------------
// Aggregate'ler sıralama, limit ve offset'i yok sayar. Boş kümede
// Sum/Avg/Min/Max 0 döner.

func (b *Builder) aggregate(ctx context.Context, kind database.AggregateKind, column string) (any, error) {
	expr := b.expr.Clone()
	expr.Statement = database.StatementSelect
	expr.Orders = nil
	expr.Limit = 0
	expr.Offset = 0
	expr.Columns = nil
	expr.Aggregate = &database.Aggregate{Kind: kind, Column: column}

	res, err := b.execute(ctx, expr)
	if err != nil {
		return nil, err
	}
	if len(res.Rows) == 0 {
		return nil, nil
	}
	return res.Rows[0][database.AggregateAlias], nil
}

func (b *Builder) aggregateFloat(ctx context.Context, kind database.AggregateKind, column string) (float64, error) {
	v, err := b.aggregate(ctx, kind, column)
	if err != nil || v == nil {
		return 0, err
	}
	f, err := castNumber(database.AggregateAlias, v)
	if err != nil {
		return 0, err
	}
	return f.(float64), nil
}

// Count satır sayısını döner. Kolon verilirse o kolonun null olmayan
// değerleri sayılır.
func (b *Builder) Count(ctx context.Context, column ...string) (int64, error) {
	col := ""
	if len(column) > 0 {
		col = column[0]
	}
	f, err := b.aggregateFloat(ctx, database.AggregateCount, col)
	return int64(f), err
}

func (b *Builder) Sum(ctx context.Context, column string) (float64, error) {
	return b.aggregateFloat(ctx, database.AggregateSum, column)
}

func (b *Builder) Avg(ctx context.Context, column string) (float64, error) {
	return b.aggregateFloat(ctx, database.AggregateAvg, column)
}

func (b *Builder) Min(ctx context.Context, column string) (float64, error) {
	return b.aggregateFloat(ctx, database.AggregateMin, column)
}

func (b *Builder) Max(ctx context.Context, column string) (float64, error) {
	return b.aggregateFloat(ctx, database.AggregateMax, column)
}

// -----------------------------------------------------------------------------
// WRITES
// -----------------------------------------------------------------------------

// Insert dokümanları toplu atama ile modele çevirip ekler ve eklenen
// modelleri döner. id yoksa IDGenerator ile üretilir; timestamp alanları
// boşsa doldurulur.
//
// Örnek:
//
//	people, err := q.Insert(ctx,
//	    map[string]any{"name": "John", "age": 25},
//	    map[string]any{"name": "Jane", "age": 45},
//	)
func (b *Builder) Insert(ctx context.Context, docs ...map[string]any) (*Collection, error) {
	if b.err != nil {
		return nil, b.err
	}
	models := make([]*Model, 0, len(docs))
	for _, doc := range docs {
		m, err := NewModel(b.def, doc)
		if err != nil {
			return nil, err
		}
		models = append(models, m)
	}
	if err := b.insertModels(ctx, models); err != nil {
		return nil, err
	}
	return NewCollection(models...), nil
}

// Create tek bir modeli ekler. ForceSet ile yazılmış guarded alanlar da
// yazılır.
func (b *Builder) Create(ctx context.Context, m *Model) error {
	if b.err != nil {
		return b.err
	}
	return b.insertModels(ctx, []*Model{m})
}

func (b *Builder) insertModels(ctx context.Context, models []*Model) error {
	if len(models) == 0 {
		return database.NewValidationError("documents", "insert requires at least one document")
	}

	now := b.rt.now()
	rows := make([]database.Row, len(models))
	for i, m := range models {
		if b.rt.idgen != nil && m.ID() == nil {
			if err := m.ForceSet(b.def.primaryKey(), b.rt.idgen()); err != nil {
				return err
			}
		}
		if ts := b.def.Timestamps; ts != nil {
			for _, field := range []string{ts.CreatedAt, ts.UpdatedAt} {
				if field != "" && m.Get(field) == nil {
					if err := m.ForceSet(field, now); err != nil {
						return err
					}
				}
			}
		}
		if err := applyRules(m, false); err != nil {
			return err
		}
		rows[i] = m.row()
	}

	expr := b.writeExpression(database.StatementInsert)
	expr.Documents = rows
	res, err := b.execute(ctx, expr)
	if err != nil {
		return err
	}

	for _, m := range models {
		m.exists = true
		m.origin = b
	}
	b.invalidate(ctx)
	b.dispatchModel(events.EventModelCreated, res.RowsAffected)
	return nil
}

// Save modeli kaydeder: yeni modeller eklenir, mevcut modeller birincil
// anahtara göre güncellenir.
func (b *Builder) Save(ctx context.Context, m *Model) error {
	if b.err != nil {
		return b.err
	}
	if !m.exists {
		return b.insertModels(ctx, []*Model{m})
	}

	pk := b.def.primaryKey()
	if m.ID() == nil {
		return database.NewValidationError(pk, "cannot update a model without a primary key")
	}
	if ts := b.def.Timestamps; ts != nil && ts.UpdatedAt != "" {
		if err := m.ForceSet(ts.UpdatedAt, b.rt.now()); err != nil {
			return err
		}
	}
	if err := applyRules(m, true); err != nil {
		return err
	}

	changes := m.row()
	delete(changes, pk)
	expr := b.writeExpression(database.StatementUpdate)
	expr.Wheres = []database.WhereClause{{Column: pk, Operator: database.OpEqual, Value: m.ID(), Boolean: database.BooleanAnd}}
	expr.Changes = changes

	res, err := b.execute(ctx, expr)
	if err != nil {
		return err
	}
	b.invalidate(ctx)
	b.dispatchModel(events.EventModelUpdated, res.RowsAffected)
	return nil
}

// Update eşleşen satırlara changes'i yazar ve etkilenen satır sayısını
// döner. Guarded alanlar toplu atamada olduğu gibi atlanır; Definition.Rules
// sadece yazılan alanlara uygulanır.
func (b *Builder) Update(ctx context.Context, changes map[string]any) (int64, error) {
	if b.err != nil {
		return 0, b.err
	}
	staged := &Model{def: b.def, attributes: make(map[string]any, len(changes))}
	if err := staged.Fill(changes); err != nil {
		return 0, err
	}
	if ts := b.def.Timestamps; ts != nil && ts.UpdatedAt != "" && len(staged.attributes) > 0 {
		if _, set := staged.attributes[ts.UpdatedAt]; !set {
			staged.attributes[ts.UpdatedAt] = b.rt.now()
		}
	}
	if err := applyRules(staged, true); err != nil {
		return 0, err
	}

	expr := b.expr.Clone()
	expr.Statement = database.StatementUpdate
	expr.Changes = staged.row()

	res, err := b.execute(ctx, expr)
	if err != nil {
		return 0, err
	}
	b.invalidate(ctx)
	b.dispatchModel(events.EventModelUpdated, res.RowsAffected)
	return res.RowsAffected, nil
}

// Delete eşleşen satırları siler ve silinen satır sayısını döner.
func (b *Builder) Delete(ctx context.Context) (int64, error) {
	expr := b.expr.Clone()
	expr.Statement = database.StatementDelete

	res, err := b.execute(ctx, expr)
	if err != nil {
		return 0, err
	}
	b.invalidate(ctx)
	b.dispatchModel(events.EventModelDeleted, res.RowsAffected)
	return res.RowsAffected, nil
}

func (b *Builder) writeExpression(kind database.StatementKind) *database.Expression {
	expr := database.NewExpression(b.def.Table)
	expr.Statement = kind
	expr.JSONColumns = b.def.JSONColumns()
	return expr
}

func (b *Builder) dispatchModel(name string, count int64) {
	if b.rt.dispatcher == nil {
		return
	}
	_ = b.rt.dispatcher.Dispatch(events.NewModelEvent(name, events.ModelChanged{
		Connection: b.adapter.Name(),
		Table:      b.def.Table,
		Count:      count,
	}))
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
