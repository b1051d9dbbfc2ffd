// -----------------------------------------------------------------------------
// Query Result Cache
// -----------------------------------------------------------------------------
// Builder.Remember ile işaretlenen select sorgularının ham satırları bu
// paketteki Cache implementasyonlarında saklanır. Değerler byte slice'tır;
// serileştirme çağıranın sorumluluğundadır.
//
// Driver'lar: Redis, Memory
//
// Geçersiz kılma (invalidation) anahtar silerek değil, tablo başına bir
// generation sayacı artırılarak yapılır. Sorgu anahtarı ilgili tabloların
// generation değerlerini içerdiği için bir yazmadan sonra eski kayıtlar
// bir daha okunmaz ve TTL ile düşer:
//
//	gen, _ := c.Increment(ctx, cache.GenerationKey("primary", "employees"), 0)
//	key := cache.QueryKey("primary", "employees", fingerprint, gen)
// -----------------------------------------------------------------------------

package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
)

// Cache, sorgu cache driver'larının implement ettiği interface'tir.
type Cache interface {
	// Get key'in değerini döner. Key yoksa veya süresi dolmuşsa
	// ok false'tur, hata dönmez.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Set değeri yazar. ttl 0 ise süresiz saklanır.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete key'leri siler; olmayan key hata değildir.
	Delete(ctx context.Context, keys ...string) error

	// Increment sayacı delta kadar artırır ve yeni değeri döner. Key yoksa
	// 0'dan başlar; delta 0 ile mevcut değer okunur.
	Increment(ctx context.Context, key string, delta int64) (int64, error)

	// Flush cache'in kendi namespace'indeki tüm key'leri siler.
	Flush(ctx context.Context) error
}

// Stats, cache istatistikleri. Driver'lar opsiyonel olarak implement eder.
type Stats interface {
	Stats() map[string]any
}

// GenerationKey bir tablonun generation sayacının key'idir.
func GenerationKey(connection, table string) string {
	return "gen:" + connection + ":" + table
}

// QueryKey sorgu parmak izi ve ilgili tabloların generation değerlerinden
// cache key'i üretir.
//
// Örnek:
//
//	key := cache.QueryKey("primary", "employees", `{"Table":"employees"}`, 3, 1)
//	// "query:primary:employees:9f2c..."
func QueryKey(connection, table, fingerprint string, generations ...int64) string {
	var sb strings.Builder
	sb.WriteString(fingerprint)
	for _, g := range generations {
		sb.WriteByte('|')
		sb.WriteString(strconv.FormatInt(g, 10))
	}
	sum := sha256.Sum256([]byte(sb.String()))
	return fmt.Sprintf("query:%s:%s:%s", connection, table, hex.EncodeToString(sum[:]))
}

// Remember, key cache'de varsa değeri döner; yoksa fn'i çalıştırıp sonucu
// ttl ile yazar. Aynı key için eşzamanlı miss'ler tek bir fn çağrısında
// birleştirilir.
//
// Döndürür:
//   - []byte: Cache'deki veya fn'in ürettiği değer
//   - bool: Değer cache'den geldiyse true
//   - error: fn hatası. Cache okuma/yazma hataları fn'e düşmeyi engellemez.
//
// Örnek:
//
//	data, hit, err := cache.Remember(ctx, c, key, time.Minute, func() ([]byte, error) {
//	    return json.Marshal(rows)
//	})
func Remember(ctx context.Context, c Cache, key string, ttl time.Duration, fn func() ([]byte, error)) ([]byte, bool, error) {
	if data, ok, err := c.Get(ctx, key); err == nil && ok {
		return data, true, nil
	}

	// Farklı Cache örnekleri aynı key'i paylaşabilir.
	flightKey := fmt.Sprintf("%p|%s", c, key)
	v, err, _ := group.Do(flightKey, func() (any, error) {
		data, err := fn()
		if err != nil {
			return nil, err
		}
		_ = c.Set(ctx, key, data, ttl)
		return data, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v.([]byte), false, nil
}

var group singleflight.Group
