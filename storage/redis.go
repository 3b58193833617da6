package storage

import (
	"github.com/go-redis/redis"

	"github.com/dlshle/nscache/errors"
)

const redisScanBatch = 256

// RedisBackend keeps every record as a plain redis string under keyPrefix+key.
type RedisBackend struct {
	client    *redis.Client
	keyPrefix string
}

func NewRedisBackend(client *redis.Client, keyPrefix string) *RedisBackend {
	return &RedisBackend{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// DialRedis connects to addr and pings it before handing out the backend.
func DialRedis(addr, password string, db int, keyPrefix string) (*RedisBackend, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping().Err(); err != nil {
		client.Close()
		return nil, errors.Errorf("ping redis %s: %w", addr, err)
	}
	return NewRedisBackend(client, keyPrefix), nil
}

func (b *RedisBackend) Ping() error {
	return b.client.Ping().Err()
}

func (b *RedisBackend) Get(key string) ([]byte, error) {
	data, err := b.client.Get(b.keyPrefix + key).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	return data, err
}

func (b *RedisBackend) Set(key string, data []byte) error {
	return b.client.Set(b.keyPrefix+key, data, 0).Err()
}

func (b *RedisBackend) Delete(key string) error {
	return b.client.Del(b.keyPrefix + key).Err()
}

// Clear flushes the selected redis database, or only the keys under the prefix when one
// is configured.
func (b *RedisBackend) Clear() error {
	if b.keyPrefix == "" {
		return b.client.FlushDB().Err()
	}
	errs := errors.NewMultiError()
	var cursor uint64
	for {
		keys, next, err := b.client.Scan(cursor, b.keyPrefix+"*", redisScanBatch).Result()
		if err != nil {
			errs.Add(err)
			break
		}
		if len(keys) > 0 {
			errs.AddIfNonNil(b.client.Del(keys...).Err())
		}
		if next == 0 {
			break
		}
		cursor = next
	}
	return errs.ErrorOrNil()
}

func (b *RedisBackend) Close() error {
	return b.client.Close()
}
