package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/ryadom/ryadom/internal/models"
	"github.com/sirupsen/logrus"
)

// GeocodeCache caches resolved coordinates per address. Entries expire via
// Redis TTL rather than explicit deletion.
type GeocodeCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logrus.Logger
}

func NewGeocodeCache(client *redis.Client, ttl time.Duration, logger *logrus.Logger) *GeocodeCache {
	return &GeocodeCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func geocodeKey(address string) string {
	return fmt.Sprintf("geocode:%s", address)
}

func (c *GeocodeCache) Get(ctx context.Context, address string) (*models.GeocodeResult, error) {
	dataJSON, err := c.client.Get(ctx, geocodeKey(address)).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cached geocode result: %w", err)
	}

	var result models.GeocodeResult
	if err := json.Unmarshal([]byte(dataJSON), &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached geocode result: %w", err)
	}

	return &result, nil
}

func (c *GeocodeCache) Set(ctx context.Context, result *models.GeocodeResult) error {
	dataJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal geocode result: %w", err)
	}

	if err := c.client.Set(ctx, geocodeKey(result.Address), dataJSON, c.ttl).Err(); err != nil {
		c.logger.WithError(err).Error("Failed to cache geocode result")
		return fmt.Errorf("failed to cache geocode result: %w", err)
	}

	return nil
}
