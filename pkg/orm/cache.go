package orm

// -----------------------------------------------------------------------------
// Query Result Cache
// -----------------------------------------------------------------------------
// Remember ile işaretlenen select sorgularının ham satırları Manager'a
// WithCache ile verilen cache'te JSON olarak saklanır. Cast'ler okumada
// tekrar uygulandığı için cache'ten dönen modeller veritabanından
// dönenlerle aynı tipleri taşır; cast'i olmayan sayısal kolonlar float64
// olarak döner.
//
// Cache key'i Expression'ın parmak izi ile birincil ve join'lenen
// tabloların generation sayaçlarından üretilir. Insert, Update, Save ve
// Delete tablonun sayacını artırır; transaction içindeki yazmalar commit'te
// tekrar artırılır.
//
// Transaction içindeki okumalar cache'i hiç kullanmaz.
// -----------------------------------------------------------------------------

import (
	"context"
	"encoding/json"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/biyonik/conduit-orm/pkg/cache"
	"github.com/biyonik/conduit-orm/pkg/database"
)

// touchedTables, bir transaction boyunca yazılan tablolardır.
type touchedTables struct {
	mu     sync.Mutex
	tables map[string]struct{}
}

func (t *touchedTables) add(table string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.tables == nil {
		t.tables = make(map[string]struct{})
	}
	t.tables[table] = struct{}{}
}

func (t *touchedTables) list() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Sorted(maps.Keys(t.tables))
}

// Remember sorgu sonucunu ttl süresince cache'ler. Manager'da cache yoksa
// etkisizdir.
//
// Örnek:
//
//	active, err := m.Query(Users).Where("active", true).Remember(time.Minute).Get(ctx)
func (b *Builder) Remember(ttl time.Duration) *Builder {
	if !b.mutable() {
		return b
	}
	if ttl <= 0 {
		return b.fail(database.NewValidationError("ttl", "cache ttl must be positive"))
	}
	b.cacheTTL = ttl
	return b
}

func (b *Builder) cacheable() bool {
	return b.cacheTTL > 0 && b.rt.cache != nil && b.activeTx() == nil
}

// selectRows select Expression'ını çalıştırır; builder cache'lenebilirse
// sonuç önce cache'te aranır. Cache hataları sorguyu engellemez.
func (b *Builder) selectRows(ctx context.Context, expr *database.Expression) ([]database.Row, error) {
	if !b.cacheable() {
		res, err := b.execute(ctx, expr)
		if err != nil {
			return nil, err
		}
		return res.Rows, nil
	}
	if b.err != nil {
		return nil, b.err
	}

	key, err := b.cacheKey(ctx, expr)
	if err != nil {
		b.rt.logger.Warn("query cache unavailable", "table", b.def.Table, "error", err)
		res, err := b.execute(ctx, expr)
		if err != nil {
			return nil, err
		}
		return res.Rows, nil
	}

	data, hit, err := cache.Remember(ctx, b.rt.cache, key, b.cacheTTL, func() ([]byte, error) {
		res, err := b.execute(ctx, expr)
		if err != nil {
			return nil, err
		}
		return json.Marshal(res.Rows)
	})
	if err != nil {
		return nil, err
	}
	b.state = stateExecuted

	var rows []database.Row
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, database.NewValidationError("cache", "cannot decode cached rows: %v", err)
	}
	b.rt.logger.Debug("query cache", "table", b.def.Table, "hit", hit, "rows", len(rows))
	return rows, nil
}

func (b *Builder) cacheKey(ctx context.Context, expr *database.Expression) (string, error) {
	fingerprint, err := json.Marshal(expr)
	if err != nil {
		return "", err
	}

	tables := []string{expr.Table}
	for _, j := range expr.Joins {
		if !slices.Contains(tables, j.Table) {
			tables = append(tables, j.Table)
		}
	}

	conn := b.adapter.Name()
	gens := make([]int64, len(tables))
	for i, table := range tables {
		g, err := b.rt.cache.Increment(ctx, cache.GenerationKey(conn, table), 0)
		if err != nil {
			return "", err
		}
		gens[i] = g
	}
	return cache.QueryKey(conn, expr.Table, string(fingerprint), gens...), nil
}

// invalidate başarılı bir yazmadan sonra çağrılır.
func (b *Builder) invalidate(ctx context.Context) {
	if b.rt.cache == nil {
		return
	}
	if tx := b.activeTx(); tx != nil {
		tx.touched.add(b.def.Table)
	}
	b.bumpGenerations(ctx, b.def.Table)
}

func (b *Builder) bumpGenerations(ctx context.Context, tables ...string) {
	if b.rt.cache == nil {
		return
	}
	for _, table := range tables {
		if _, err := b.rt.cache.Increment(ctx, cache.GenerationKey(b.adapter.Name(), table), 1); err != nil {
			b.rt.logger.Warn("query cache invalidation failed", "table", table, "error", err)
		}
	}
}
