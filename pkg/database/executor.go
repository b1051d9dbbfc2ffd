package database

import (
	"context"
	"database/sql"
)

// QueryExecutor, database/sql paketindeki hem *sql.DB (havuz) hem de
// *sql.Tx (transaction) tarafından örtük olarak uygulanan metodları tanımlar.
//
// SQLAdapter *sql.DB'ye kilitlenmek yerine bu arayüze kilitlenir; böylece
// aynı çalıştırma yolu pool üzerinde de, sabitlenmiş transaction bağlantısı
// üzerinde de kullanılır.
type QueryExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}
