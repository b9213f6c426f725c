package cache

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"user-console/internal/core/config"
)

type Cache struct {
	RDB *redis.Client
	sf  singleflight.Group
	gen atomic.Uint64 // 每次 Invalidate 自增
}

func New(addr, pass string, db int) *Cache {
	return &Cache{
		RDB: redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}),
	}
}

// FromConfig redis.addr 为空时返回 nil（不启用缓存）
func FromConfig(c config.Redis) *Cache {
	if c.Addr == "" {
		return nil
	}
	return New(c.Addr, c.Password, c.DB)
}

func (c *Cache) Ping(ctx context.Context) error { return c.RDB.Ping(ctx).Err() }

func (c *Cache) Close() error { return c.RDB.Close() }

func (c *Cache) GetOrLoad(ctx context.Context, key string, ttl time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error) {
	// 先读缓存；redis 不可用时直接回源
	if b, err := c.RDB.Get(ctx, key).Bytes(); err == nil {
		return b, nil
	}
	// single flight 合并回源
	v, err, _ := c.sf.Do(key, func() (any, error) {
		start := c.gen.Load()
		b, e := load(ctx)
		if e != nil {
			return nil, e
		}
		// 回源期间发生过写入：结果可能是旧值，不回填
		if c.gen.Load() == start {
			_ = c.RDB.Set(ctx, key, b, ttl).Err()
		}
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// Invalidate 写操作后删除相关 key
func (c *Cache) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	c.gen.Add(1)
	return c.RDB.Del(ctx, keys...).Err()
}
