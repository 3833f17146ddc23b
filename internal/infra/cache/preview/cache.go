package preview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

const (
	defaultPrefix = "preview"
	defaultTTL    = time.Minute

	// версия даты живет дольше любой записи, чтобы старые ключи не ожили
	versionTTL = 48 * time.Hour
)

// Cache кэш рекомендаций на Redis.
//
// Ключ записи включает версию даты. Любое изменение журнала на дату
// увеличивает версию (INCR), и все старые записи перестают находиться.
// Кэш носит рекомендательный характер: коммит всегда пересчитывает слот заново.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewCache создает кэш. ttl <= 0 заменяется значением по умолчанию.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Cache{client: client, ttl: ttl, prefix: defaultPrefix}
}

// Get возвращает запись или (nil, false, nil), если ее нет
func (c *Cache) Get(ctx context.Context, key Key) (*Entry, bool, error) {
	version, err := c.version(ctx, key.Date)
	if err != nil {
		return nil, false, err
	}

	raw, err := c.client.Get(ctx, c.entryKey(key, version)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: get entry: %v", ErrCache, err)
	}

	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	return &entry, true, nil
}

// Set сохраняет запись под текущей версией даты
func (c *Cache) Set(ctx context.Context, key Key, entry *Entry) error {
	version, err := c.version(ctx, key.Date)
	if err != nil {
		return err
	}

	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("%w: encode entry: %v", ErrCache, err)
	}

	if err := c.client.Set(ctx, c.entryKey(key, version), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("%w: set entry: %v", ErrCache, err)
	}
	return nil
}

// Invalidate делает недействительными все записи на дату
func (c *Cache) Invalidate(ctx context.Context, date time.Time) error {
	key := c.versionKey(date)

	pipe := c.client.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, versionTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: bump version: %v", ErrCache, err)
	}
	return nil
}

func (c *Cache) version(ctx context.Context, date time.Time) (int64, error) {
	v, err := c.client.Get(ctx, c.versionKey(date)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: get version: %v", ErrCache, err)
	}

	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad version %q", ErrDecode, v)
	}
	return n, nil
}

func (c *Cache) versionKey(date time.Time) string {
	return fmt.Sprintf("%s:version:%s", c.prefix, date.Format(domain.DateFormat))
}

func (c *Cache) entryKey(key Key, version int64) string {
	return fmt.Sprintf("%s:%s:v%d:%s", c.prefix, key.Date.Format(domain.DateFormat), version, key.normalized())
}
