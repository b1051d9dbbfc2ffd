//go:build integration

package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Paket içi tek container; ryuk süreç sonunda temizler.
var (
	postgresOnce sync.Once
	postgresDSN  string
	postgresErr  error
)

// PostgresDSN paylaşılan PostgreSQL container'ını gerekirse başlatır ve
// bağlantı string'ini döner. Docker yoksa test atlanır.
func PostgresDSN(t testing.TB) string {
	t.Helper()

	postgresOnce.Do(func() {
		ctx := context.Background()

		container, err := postgres.Run(ctx,
			"postgres:16-alpine",
			postgres.WithDatabase("conduit"),
			postgres.WithUsername("test"),
			postgres.WithPassword("test"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(60*time.Second),
			),
		)
		if err != nil {
			postgresErr = err
			return
		}

		dsn, err := container.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			_ = container.Terminate(ctx)
			postgresErr = err
			return
		}
		postgresDSN = dsn
	})

	if postgresErr != nil {
		t.Skipf("postgres container unavailable: %v", postgresErr)
	}
	require.NotEmpty(t, postgresDSN)
	return postgresDSN
}
