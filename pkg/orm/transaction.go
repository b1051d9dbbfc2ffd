package orm

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/biyonik/conduit-orm/pkg/database"
	"github.com/biyonik/conduit-orm/pkg/events"
)

// txScope bir transaction'ın handle'ını ve yazılan tablolarını tutar.
// Transaction içinde üretilen builder'lar (ve yükledikleri modeller) aynı
// scope'u paylaşır; commit veya rollback sonrasında scope kapanır ve bu
// builder'lar pool üzerinden çalışmaya devam eder.
type txScope struct {
	handle  database.TransactionHandle
	touched touchedTables
	done    atomic.Bool
}

// activeTx builder bitmemiş bir transaction'a bağlıysa scope'u döner.
func (b *Builder) activeTx() *txScope {
	if b.tx == nil || b.tx.done.Load() {
		return nil
	}
	return b.tx
}

// session sorgunun çalışacağı oturumdur.
func (b *Builder) session() database.Session {
	if tx := b.activeTx(); tx != nil {
		return tx.handle
	}
	return b.adapter
}

// For aynı bağlantı ve transaction üzerinde başka bir model için builder
// döner. Transaction dışında Manager.Query ile aynıdır.
//
// Örnek:
//
//	err := q.Transaction(ctx, func(tx *orm.Builder) error {
//	    if err := tx.For(Departments).Create(ctx, hr); err != nil {
//	        return err
//	    }
//	    return tx.Create(ctx, manager)
//	})
func (b *Builder) For(def *Definition) *Builder {
	rb := b.relatedBuilder(def)
	if b.err != nil && rb.err == nil {
		rb.err = b.err
	}
	return rb
}

// -----------------------------------------------------------------------------
// TRANSACTIONS
// -----------------------------------------------------------------------------

// Transaction fn'i tek bir sabitlenmiş bağlantı üzerinde çalıştırır. fn'e
// verilen builder, ondan Clone veya For ile türetilen her builder ve bu
// builder'ların yüklediği modellerin lazy ilişkileri aynı transaction'ı
// kullanır. Transaction bittikten sonra bunlar pool'a döner.
//
// fn hata dönerse rollback yapılır ve orijinal hata olduğu gibi döner.
// Rollback da başarısız olursa ikisini saran *TransactionError döner.
// Transaction desteklemeyen adapter'larda NotSupportedError döner.
//
// Örnek:
//
//	err := q.Transaction(ctx, func(tx *orm.Builder) error {
//	    if _, err := tx.Clone().Where("name", "Alice").Update(ctx, map[string]any{"age": 26}); err != nil {
//	        return err
//	    }
//	    _, err := tx.Clone().Where("name", "Bob").Update(ctx, map[string]any{"age": 31})
//	    return err
//	})
func (b *Builder) Transaction(ctx context.Context, fn func(tx *Builder) error) error {
	if b.err != nil {
		return b.err
	}
	// İç içe çağrı aynı bağlantıyı kullanır; ikinci bağlantı istenmez.
	if b.activeTx() != nil {
		return fn(b.Clone())
	}
	if !b.adapter.Capabilities().SupportsTransactions {
		return &database.NotSupportedError{Adapter: b.adapter.Driver(), Operation: "transactions"}
	}

	handle, err := b.adapter.BeginTransaction(ctx)
	if err != nil {
		return err
	}

	scope := &txScope{handle: handle}
	tx := b.Clone()
	tx.tx = scope

	finished := false
	defer func() {
		if finished {
			return
		}
		if p := recover(); p != nil {
			scope.done.Store(true)
			_ = handle.Rollback()
			panic(p)
		}
	}()

	err = fn(tx)
	finished = true
	scope.done.Store(true)

	if err != nil {
		b.rt.logger.Error("transaction callback failed", "connection", b.adapter.Name(), "error", err)
		if rbErr := handle.Rollback(); rbErr != nil {
			b.rt.logger.Error("transaction rollback failed", "connection", b.adapter.Name(), "error", rbErr)
			b.dispatchTransaction(events.EventTransactionRolledBack, err)
			return &database.TransactionError{Err: err, RollbackErr: rbErr}
		}
		b.dispatchTransaction(events.EventTransactionRolledBack, err)
		return err
	}

	if err := handle.Commit(); err != nil {
		b.rt.logger.Error("transaction commit failed", "connection", b.adapter.Name(), "error", err)
		return fmt.Errorf("transaction commit failed: %w", err)
	}
	b.bumpGenerations(ctx, scope.touched.list()...)
	b.dispatchTransaction(events.EventTransactionCommitted, nil)
	return nil
}

func (b *Builder) dispatchTransaction(name string, cause error) {
	if b.rt.dispatcher == nil {
		return
	}
	_ = b.rt.dispatcher.Dispatch(events.NewTransactionEvent(name, events.TransactionFinished{
		Connection: b.adapter.Name(),
		Err:        cause,
	}))
}
