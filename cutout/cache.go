package cutout

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/chaos-io/cutout/matte"
	"github.com/redis/go-redis/v9"
)

// Cache 处理结果缓存，出错时调用方只记日志
type Cache interface {
	Get(ctx context.Context, key string) (*Response, error)
	Set(ctx context.Context, key string, resp *Response) error
}

// NopCache 不缓存
type NopCache struct{}

func (NopCache) Get(context.Context, string) (*Response, error) { return nil, nil }
func (NopCache) Set(context.Context, string, *Response) error   { return nil }

type cachedResponse struct {
	PNG    []byte      `json:"png"`
	Source string      `json:"source"`
	Width  int         `json:"width"`
	Height int         `json:"height"`
	Stats  matte.Stats `json:"stats"`
	Empty  bool        `json:"empty"`
}

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Get 缓存未命中返回 (nil, nil)
func (c *RedisCache) Get(ctx context.Context, key string) (*Response, error) {
	data, err := c.client.Get(ctx, cacheKeyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var cached cachedResponse
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, err
	}
	return &Response{
		PNG:    cached.PNG,
		Source: cached.Source,
		Width:  cached.Width,
		Height: cached.Height,
		Stats:  cached.Stats,
		Empty:  cached.Empty,
		Cached: true,
	}, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, resp *Response) error {
	data, err := json.Marshal(cachedResponse{
		PNG:    resp.PNG,
		Source: resp.Source,
		Width:  resp.Width,
		Height: resp.Height,
		Stats:  resp.Stats,
		Empty:  resp.Empty,
	})
	if err != nil {
		return err
	}
	return c.client.Set(ctx, cacheKeyPrefix+key, data, c.ttl).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

const cacheKeyPrefix = "cutout:"
