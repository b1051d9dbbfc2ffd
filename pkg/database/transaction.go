// pkg/database/transaction.go
//
// SQL transaction handle'ı. Bir transaction pool'dan tek bir bağlantıyı
// sabitler; handle'a bağlı tüm builder'lar bu bağlantı üzerinde çalışır.
// Callback içinde pool'dan ikinci bir bağlantı istemek havuz tükenmesine
// (deadlock) yol açabileceği için handle her zaman builder'a geçirilir,
// pool'dan yeniden çözümlenmez.
//
// Örnek kullanım:
//
//	tx, _ := adapter.BeginTransaction(ctx)
//	q, _ := adapter.Compile(expr)
//	tx.Execute(ctx, q)
//	tx.Commit()
//
// Eğer işlem sırasında hata olursa:
//
//	tx.Rollback()

package database

import (
	"context"
	"database/sql"
)

// sqlTransaction, *sql.Tx üzerinde TransactionHandle implementasyonudur.
type sqlTransaction struct {
	tx      *sql.Tx
	adapter *SQLAdapter
}

// Execute sorguyu sabitlenmiş bağlantı üzerinde çalıştırır.
func (t *sqlTransaction) Execute(ctx context.Context, query NativeQuery) (*Result, error) {
	return t.adapter.run(ctx, t.tx, query)
}

// Commit transaction'ı başarılı şekilde sonlandırır.
func (t *sqlTransaction) Commit() error {
	err := t.tx.Commit()
	if err == nil {
		t.adapter.opts.Logger.Debug("transaction committed", "connection", t.adapter.Name())
	}
	return err
}

// Rollback yapılmış tüm değişiklikleri geri alır.
func (t *sqlTransaction) Rollback() error {
	err := t.tx.Rollback()
	if err == nil {
		t.adapter.opts.Logger.Debug("transaction rolled back", "connection", t.adapter.Name())
	}
	return err
}
