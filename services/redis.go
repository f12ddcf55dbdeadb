package services

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "bitemebuddy:"

// RedisCache keeps JSON snapshots of catalogue reads
type RedisCache struct {
	client *redis.Client
	prefix string
}

func NewRedisCache(redisURL string) (*RedisCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	log.Printf("cache: connected to redis at %s", opt.Addr)
	return &RedisCache{client: client, prefix: cacheKeyPrefix}, nil
}

func (c *RedisCache) key(name string) string { return c.prefix + name }

// readJSON decodes the snapshot stored under name into dest. It reports
// false on a miss; read and decode failures are logged and count as misses.
func (c *RedisCache) readJSON(ctx context.Context, name string, dest interface{}) bool {
	data, err := c.client.Get(ctx, c.key(name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false
	}
	if err != nil {
		log.Printf("cache: get %s: %v", name, err)
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		log.Printf("cache: decode %s: %v", name, err)
		return false
	}
	return true
}

// writeJSON stores v under name for ttl. Failures are logged only.
func (c *RedisCache) writeJSON(ctx context.Context, name string, v interface{}, ttl time.Duration) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("cache: encode %s: %v", name, err)
		return
	}
	if err := c.client.Set(ctx, c.key(name), data, ttl).Err(); err != nil {
		log.Printf("cache: set %s: %v", name, err)
	}
}

func (c *RedisCache) forget(ctx context.Context, names ...string) error {
	keys := make([]string, len(names))
	for i, name := range names {
		keys[i] = c.key(name)
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
