package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	goredis "github.com/redis/go-redis/v9"

	"golang-sentiment-scryper/internal/entity"
	"golang-sentiment-scryper/pkg/redis"
)

// PriceCache stores fetched price series by key.
type PriceCache interface {
	Get(ctx context.Context, key string) (entity.PriceSeries, bool, error)
	Set(ctx context.Context, key string, prices entity.PriceSeries) error
}

type memoryPriceCache struct {
	inmemoryCache *cache.Cache
}

// NewMemoryPriceCache keeps prices in process memory for ttl.
func NewMemoryPriceCache(ttl time.Duration) PriceCache {
	return &memoryPriceCache{
		inmemoryCache: cache.New(ttl, 2*ttl),
	}
}

func (c *memoryPriceCache) Get(_ context.Context, key string) (entity.PriceSeries, bool, error) {
	v, found := c.inmemoryCache.Get(key)
	if !found {
		return nil, false, nil
	}
	prices, ok := v.(entity.PriceSeries)
	if !ok {
		return nil, false, fmt.Errorf("unexpected cached type %T", v)
	}
	return prices, true, nil
}

func (c *memoryPriceCache) Set(_ context.Context, key string, prices entity.PriceSeries) error {
	c.inmemoryCache.SetDefault(key, prices)
	return nil
}

type redisPriceCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisPriceCache shares prices between service instances through Redis.
func NewRedisPriceCache(client *redis.Client, ttl time.Duration) PriceCache {
	return &redisPriceCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *redisPriceCache) Get(ctx context.Context, key string) (entity.PriceSeries, bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var prices entity.PriceSeries
	if err := json.Unmarshal(raw, &prices); err != nil {
		return nil, false, fmt.Errorf("decode cached prices: %w", err)
	}
	return prices, true, nil
}

func (c *redisPriceCache) Set(ctx context.Context, key string, prices entity.PriceSeries) error {
	raw, err := json.Marshal(prices)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, raw, c.ttl).Err()
}
