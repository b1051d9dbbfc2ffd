// -----------------------------------------------------------------------------
// Redis Document Store
// -----------------------------------------------------------------------------
// Redis üzerinde DocumentStore implementasyonu.
//
// Anahtar düzeni (Prefix varsayılan "conduit:"):
//   - <prefix>collections       SET   collection adları
//   - <prefix>docs:<name>       HASH  id → JSON doküman
//   - <prefix>order:<name>      ZSET  id → ekleme sırası
//   - <prefix>seq:<name>        STRING ekleme sayacı
//
// Yazmalar MULTI/EXEC pipeline ile gönderilir. JSON sayılar json.Number
// olarak okunur ve int64/float64'e çevrilir.
// -----------------------------------------------------------------------------

package database

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig, Redis bağlantı yapılandırması.
type RedisConfig struct {
	Host         string        // Redis sunucu adresi
	Port         int           // Redis port
	Password     string        // Redis şifresi (opsiyonel)
	DB           int           // Database numarası (0-15)
	PoolSize     int           // Connection pool boyutu
	MinIdleConns int           // Minimum idle connection sayısı
	MaxRetries   int           // Maksimum retry sayısı
	DialTimeout  time.Duration // Bağlantı timeout süresi
	ReadTimeout  time.Duration // Okuma timeout süresi
	WriteTimeout time.Duration // Yazma timeout süresi
	Prefix       string        // Anahtar öneki
}

// DefaultRedisConfig, varsayılan Redis yapılandırması.
//
// Production ortamı için önerilen değerler:
// - PoolSize: CPU core sayısının 2-4 katı
// - MinIdleConns: PoolSize'ın %25'i
// - Timeout'lar: Network latency'ye göre ayarlanmalı
func DefaultRedisConfig() *RedisConfig {
	return &RedisConfig{
		Host:         "127.0.0.1",
		Port:         6379,
		Password:     "",
		DB:           0,
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		Prefix:       "conduit:",
	}
}

// RedisStore, redis.Client üzerinde DocumentStore'dur.
type RedisStore struct {
	client *redis.Client
	prefix string
	logger *slog.Logger
}

// NewRedisStore, yeni bir Redis store oluşturur.
//
// Connection pool'u başlatır ve bağlantıyı test eder.
//
// Örnek:
//
//	store, err := NewRedisStore(ctx, DefaultRedisConfig(), logger)
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
func NewRedisStore(ctx context.Context, config *RedisConfig, logger *slog.Logger) (*RedisStore, error) {
	if config == nil {
		config = DefaultRedisConfig()
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", config.Host, config.Port),
		Password:     config.Password,
		DB:           config.DB,
		PoolSize:     config.PoolSize,
		MinIdleConns: config.MinIdleConns,
		MaxRetries:   config.MaxRetries,
		DialTimeout:  config.DialTimeout,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	})

	store := NewRedisStoreFromClient(client, config.Prefix, logger)
	if err := store.Ping(ctx); err != nil {
		client.Close()
		logger.Error("redis connection failed", "addr", client.Options().Addr, "error", err)
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	logger.Info("redis connected", "addr", client.Options().Addr, "db", config.DB)
	return store, nil
}

// NewRedisStoreFromClient mevcut bir client'ı sarar.
func NewRedisStoreFromClient(client *redis.Client, prefix string, logger *slog.Logger) *RedisStore {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &RedisStore{client: client, prefix: prefix, logger: logger}
}

// Client, altta yatan redis.Client'ı döndürür.
func (s *RedisStore) Client() *redis.Client {
	return s.client
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close, Redis bağlantısını kapatır.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) collectionsKey() string    { return s.prefix + "collections" }
func (s *RedisStore) docsKey(name string) string  { return s.prefix + "docs:" + name }
func (s *RedisStore) orderKey(name string) string { return s.prefix + "order:" + name }
func (s *RedisStore) seqKey(name string) string   { return s.prefix + "seq:" + name }

func (s *RedisStore) CreateCollection(ctx context.Context, name string) error {
	return s.client.SAdd(ctx, s.collectionsKey(), name).Err()
}

func (s *RedisStore) DropCollection(ctx context.Context, name string) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.docsKey(name), s.orderKey(name), s.seqKey(name))
		pipe.SRem(ctx, s.collectionsKey(), name)
		return nil
	})
	return err
}

func (s *RedisStore) CollectionExists(ctx context.Context, name string) (bool, error) {
	return s.client.SIsMember(ctx, s.collectionsKey(), name).Result()
}

func (s *RedisStore) Collections(ctx context.Context) ([]string, error) {
	return s.client.SMembers(ctx, s.collectionsKey()).Result()
}

func (s *RedisStore) All(ctx context.Context, collection string) ([]Row, error) {
	ids, err := s.client.ZRange(ctx, s.orderKey(collection), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis read order failed: %w", err)
	}
	if len(ids) == 0 {
		return []Row{}, nil
	}

	raw, err := s.client.HMGet(ctx, s.docsKey(collection), ids...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis read documents failed: %w", err)
	}

	docs := make([]Row, 0, len(raw))
	for i, item := range raw {
		str, ok := item.(string)
		if !ok {
			// Sıra kaydı var ama doküman silinmiş.
			s.logger.Warn("dangling document order entry", "collection", collection, "id", ids[i])
			continue
		}
		doc, err := decodeDocument(str)
		if err != nil {
			return nil, fmt.Errorf("redis decode document %s failed: %w", ids[i], err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (s *RedisStore) Put(ctx context.Context, collection string, docs []Row) error {
	if len(docs) == 0 {
		return nil
	}

	fields := make(map[string]any, len(docs))
	ids := make([]string, 0, len(docs))
	for _, doc := range docs {
		id, ok := DocumentID(doc)
		if !ok {
			return NewValidationError("id", "document has no id")
		}
		b, err := json.Marshal(doc)
		if err != nil {
			return NewValidationError("document", "cannot encode document %s: %v", id, err)
		}
		fields[id] = string(b)
		ids = append(ids, id)
	}

	// Sayaç ilk ekleme sırasını belirler; ZAddNX mevcut sırayı korur.
	seq, err := s.client.IncrBy(ctx, s.seqKey(collection), int64(len(ids))).Result()
	if err != nil {
		return fmt.Errorf("redis sequence failed: %w", err)
	}
	first := seq - int64(len(ids)) + 1

	members := make([]redis.Z, len(ids))
	for i, id := range ids {
		members[i] = redis.Z{Score: float64(first + int64(i)), Member: id}
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SAdd(ctx, s.collectionsKey(), collection)
		pipe.HSet(ctx, s.docsKey(collection), fields)
		pipe.ZAddNX(ctx, s.orderKey(collection), members...)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis write failed: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, collection string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	members := make([]any, len(ids))
	for i, id := range ids {
		members[i] = id
	}
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HDel(ctx, s.docsKey(collection), ids...)
		pipe.ZRem(ctx, s.orderKey(collection), members...)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

// FlushDB, tüm Redis database'ini temizler.
//
// DİKKAT: Production'da kullanmayın! Sadece test ortamı için.
func (s *RedisStore) FlushDB(ctx context.Context) error {
	if err := s.client.FlushDB(ctx).Err(); err != nil {
		return fmt.Errorf("redis flush failed: %w", err)
	}
	s.logger.Warn("redis database flushed")
	return nil
}

// Stats, connection pool istatistiklerini döndürür.
func (s *RedisStore) Stats() *redis.PoolStats {
	return s.client.PoolStats()
}

func decodeDocument(raw string) (Row, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	return Row(normalizeNumbers(doc).(map[string]any)), nil
}

// normalizeNumbers json.Number değerlerini int64 veya float64'e çevirir.
func normalizeNumbers(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		f, _ := t.Float64()
		return f
	case map[string]any:
		for k, item := range t {
			t[k] = normalizeNumbers(item)
		}
		return t
	case []any:
		for i, item := range t {
			t[i] = normalizeNumbers(item)
		}
		return t
	default:
		return v
	}
}
