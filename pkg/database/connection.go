// -----------------------------------------------------------------------------
// Database Connections
// -----------------------------------------------------------------------------
// Bu dosya, SQL sürücüleri üzerinden bağlantı havuzu açan merkezi fonksiyonu
// içerir. Havuz dolduğunda database/sql yeni istekleri bir bağlantı
// boşalana kadar bekletir; hata dönmez.
//
// Desteklenen sürücüler:
//   - mysql:    github.com/go-sql-driver/mysql
//   - postgres: github.com/jackc/pgx/v5/stdlib ("pgx")
//   - pq:       github.com/lib/pq ("postgres")
//   - sqlite:   modernc.org/sqlite ("sqlite")
// -----------------------------------------------------------------------------

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// ConnectionConfig, tek bir adlandırılmış bağlantının yapılandırmasıdır.
type ConnectionConfig struct {
	Name            string
	Driver          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	// Redis, redis sürücüsü için bağlantı ayarlarıdır.
	Redis *RedisConfig
}

// Default pool değerleri.
const (
	DefaultMaxOpenConns    = 25
	DefaultMaxIdleConns    = 25
	DefaultConnMaxLifetime = 5 * time.Minute
)

func (c ConnectionConfig) withDefaults() ConnectionConfig {
	if c.MaxOpenConns <= 0 {
		c.MaxOpenConns = DefaultMaxOpenConns
	}
	if c.MaxIdleConns <= 0 {
		c.MaxIdleConns = DefaultMaxIdleConns
	}
	if c.ConnMaxLifetime <= 0 {
		c.ConnMaxLifetime = DefaultConnMaxLifetime
	}
	return c
}

// sqlDriverNames, adapter sürücü adından database/sql sürücü adına eşleme.
var sqlDriverNames = map[string]string{
	"mysql":    "mysql",
	"postgres": "pgx",
	"pq":       "postgres",
	"sqlite":   "sqlite",
}

// Connect, verilen yapılandırma ile bir SQL bağlantı havuzu açar.
// Bağlantı sırasında şu adımlar gerçekleştirilir:
//  1. sql.Open ile sürücü ve DSN kullanılarak havuz nesnesi oluşturulur.
//  2. Max open/idle connection ve bağlantı ömrü ayarlanır.
//  3. PingContext ile veritabanının ulaşılabilirliği kontrol edilir.
//  4. Hata varsa havuz kapatılır ve ConnectionError döner.
func Connect(ctx context.Context, cfg ConnectionConfig) (*sql.DB, error) {
	cfg = cfg.withDefaults()

	driverName, ok := sqlDriverNames[cfg.Driver]
	if !ok {
		return nil, &ConnectionError{Connection: cfg.Name, Err: fmt.Errorf("unknown SQL driver %q", cfg.Driver)}
	}

	db, err := sql.Open(driverName, cfg.DSN)
	if err != nil {
		return nil, &ConnectionError{Connection: cfg.Name, Err: err}
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, &ConnectionError{Connection: cfg.Name, Err: err}
	}
	return db, nil
}

// DescribeDSN, DSN'i log'a yazılabilir hale getirir (parola içermez).
func DescribeDSN(driver, dsn string) string {
	switch driver {
	case "mysql":
		cfg, err := mysql.ParseDSN(dsn)
		if err != nil {
			return "mysql://invalid"
		}
		return fmt.Sprintf("mysql://%s/%s", cfg.Addr, cfg.DBName)
	case "postgres", "pq":
		cfg, err := pgconn.ParseConfig(dsn)
		if err != nil {
			return "postgres://invalid"
		}
		return fmt.Sprintf("postgres://%s:%d/%s", cfg.Host, cfg.Port, cfg.Database)
	default:
		return driver + "://" + dsn
	}
}
