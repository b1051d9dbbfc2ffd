// -----------------------------------------------------------------------------
// Redis Cache Driver
// -----------------------------------------------------------------------------
// Birden fazla instance'ın paylaştığı sorgu cache'i. Generation sayaçları
// INCRBY ile atomik artırılır; böylece bir instance'taki yazma diğer
// instance'ların eski sorgu sonuçlarını da geçersiz kılar.
//
// Tüm key'ler prefix altında tutulur; Flush sadece bu namespace'i SCAN ile
// temizler, veritabanının geri kalanına dokunmaz.
// -----------------------------------------------------------------------------

package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix NewRedisCache'e boş prefix verildiğinde kullanılır.
const DefaultRedisPrefix = "conduit:cache:"

// RedisCache Redis tabanlı Cache implementasyonudur.
type RedisCache struct {
	client *redis.Client
	logger *slog.Logger
	prefix string
}

// NewRedisCache bağlı bir Redis client'ı üzerinde cache üretir.
//
// Örnek:
//
//	c := cache.NewRedisCache(store.Client(), logger, "myapp:cache:")
//	c.Set(ctx, "users:all", data, 10*time.Minute)
//	// Gerçek key: "myapp:cache:users:all"
func NewRedisCache(client *redis.Client, logger *slog.Logger, prefix string) *RedisCache {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisCache{client: client, logger: logger, prefix: prefix}
}

func (r *RedisCache) key(k string) string {
	return r.prefix + k
}

func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		r.logger.Error("redis cache get failed", "key", key, "error", err)
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}
	return val, true, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, r.key(key), value, ttl).Err(); err != nil {
		r.logger.Error("redis cache set failed", "key", key, "error", err)
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = r.key(k)
	}
	if err := r.client.Del(ctx, prefixed...).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func (r *RedisCache) Increment(ctx context.Context, key string, delta int64) (int64, error) {
	n, err := r.client.IncrBy(ctx, r.key(key), delta).Result()
	if err != nil {
		return 0, fmt.Errorf("redis increment failed: %w", err)
	}
	return n, nil
}

// Flush prefix altındaki key'leri SCAN ile bulup siler.
func (r *RedisCache) Flush(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, r.prefix+"*", 0).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan failed: %w", err)
	}

	if len(keys) > 0 {
		if err := r.client.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("redis flush failed: %w", err)
		}
	}
	r.logger.Warn("redis cache flushed", "prefix", r.prefix, "keys", len(keys))
	return nil
}

func (r *RedisCache) Stats() map[string]any {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	info, err := r.client.Info(ctx, "stats").Result()
	if err != nil {
		return map[string]any{"driver": "redis", "error": err.Error()}
	}
	return map[string]any{
		"driver": "redis",
		"prefix": r.prefix,
		"info":   info,
	}
}
