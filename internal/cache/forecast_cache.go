package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/andresuchdata/stockcast/internal/config"
	"github.com/andresuchdata/stockcast/internal/domain"
	"github.com/andresuchdata/stockcast/internal/forecast"
	"github.com/redis/go-redis/v9"
)

const (
	forecastKeyPrefix     = "forecast:"
	forecastScanBatchSize = 100
)

// ForecastKey identifies one cached forecast: SKU plus the full model
// parameters. Identical inputs are the only cache hits; eviction is TTL
// based, never an unbounded map.
type ForecastKey struct {
	SKU      string
	Strategy forecast.Strategy
	Order    forecast.ARIMAOrder
	Horizon  int
}

type ForecastCache interface {
	Get(ctx context.Context, key ForecastKey) ([]domain.ForecastPoint, bool, error)
	Set(ctx context.Context, key ForecastKey, points []domain.ForecastPoint) error
	InvalidateSKU(ctx context.Context, sku string) error
}

type redisForecastCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopForecastCache struct{}

func NewForecastCache(cfg config.CacheConfig) (ForecastCache, error) {
	if !cfg.Enabled {
		return &noopForecastCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisForecastCache{client: client, ttl: ttl}, nil
}

func NewNoopForecastCache() ForecastCache {
	return &noopForecastCache{}
}

func (c *redisForecastCache) Get(ctx context.Context, key ForecastKey) ([]domain.ForecastPoint, bool, error) {
	payload, err := c.client.Get(ctx, buildForecastKey(key)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var points []domain.ForecastPoint
	if err := json.Unmarshal(payload, &points); err != nil {
		return nil, false, fmt.Errorf("decode forecast cache: %w", err)
	}
	return points, true, nil
}

func (c *redisForecastCache) Set(ctx context.Context, key ForecastKey, points []domain.ForecastPoint) error {
	payload, err := json.Marshal(points)
	if err != nil {
		return fmt.Errorf("encode forecast cache: %w", err)
	}

	if err := c.client.Set(ctx, buildForecastKey(key), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisForecastCache) InvalidateSKU(ctx context.Context, sku string) error {
	return deleteKeysWithPrefix(ctx, c.client, forecastKeyPrefix+sku+":", forecastScanBatchSize)
}

func buildForecastKey(key ForecastKey) string {
	raw := fmt.Sprintf("%s|%s|%d,%d,%d|%d",
		key.SKU, key.Strategy, key.Order.P, key.Order.D, key.Order.Q, key.Horizon)
	sum := sha1.Sum([]byte(raw))
	return forecastKeyPrefix + key.SKU + ":" + hex.EncodeToString(sum[:])
}

func (c *noopForecastCache) Get(ctx context.Context, key ForecastKey) ([]domain.ForecastPoint, bool, error) {
	return nil, false, nil
}

func (c *noopForecastCache) Set(ctx context.Context, key ForecastKey, points []domain.ForecastPoint) error {
	return nil
}

func (c *noopForecastCache) InvalidateSKU(ctx context.Context, sku string) error {
	return nil
}
