//go:build integration

package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

var (
	redisOnce sync.Once
	redisAddr string
	redisErr  error
)

// RedisAddr paylaşılan Redis container'ını gerekirse başlatır ve host:port
// döner. Docker yoksa test atlanır.
func RedisAddr(t testing.TB) string {
	t.Helper()

	redisOnce.Do(func() {
		ctx := context.Background()

		container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: testcontainers.ContainerRequest{
				Image:        "redis:7-alpine",
				ExposedPorts: []string{"6379/tcp"},
				WaitingFor: wait.ForLog("Ready to accept connections").
					WithStartupTimeout(60 * time.Second),
			},
			Started: true,
		})
		if err != nil {
			redisErr = err
			return
		}

		endpoint, err := container.Endpoint(ctx, "")
		if err != nil {
			_ = container.Terminate(ctx)
			redisErr = err
			return
		}
		redisAddr = endpoint
	})

	if redisErr != nil {
		t.Skipf("redis container unavailable: %v", redisErr)
	}
	require.NotEmpty(t, redisAddr)
	return redisAddr
}

// NewRedisClient paylaşılan container'a bağlı, test sonunda kapanan bir
// client döner. Her test kendi DB numarasını kullanmalıdır.
func NewRedisClient(t testing.TB, db int) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{Addr: RedisAddr(t), DB: db})
	t.Cleanup(func() { _ = client.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, client.Ping(ctx).Err())
	require.NoError(t, client.FlushDB(ctx).Err())
	return client
}
