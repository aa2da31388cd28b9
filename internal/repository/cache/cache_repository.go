package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/poi-service/internal/domain"
	"github.com/poi-service/internal/domain/repository"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	nearestKeyPrefix = "poi:nearest"
	// scanBatch - подсказка COUNT для SCAN при инвалидации
	scanBatch = 500
)

type nearestCache struct {
	client *redis.Client
	logger *zap.Logger
}

// NewCacheRepository создает кеш ближайших POI поверх общего подключения
func NewCacheRepository(r *Redis) repository.CacheRepository {
	return newNearestCache(r.Client(), r.logger)
}

func newNearestCache(client *redis.Client, logger *zap.Logger) *nearestCache {
	return &nearestCache{client: client, logger: logger}
}

func (c *nearestCache) GetNearest(ctx context.Context, q repository.NearestKey) ([]domain.NearestPOI, error) {
	key := NearestKey(q)

	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}

	var pois []domain.NearestPOI
	if err := json.Unmarshal(data, &pois); err != nil {
		// Битая запись: удаляем, чтобы следующий запрос пересчитал результат
		c.client.Del(ctx, key)
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}

	c.logger.Debug("Nearest cache hit", zap.String("key", key), zap.Int("results", len(pois)))
	return pois, nil
}

func (c *nearestCache) SetNearest(ctx context.Context, q repository.NearestKey, pois []domain.NearestPOI, ttl time.Duration) error {
	data, err := json.Marshal(pois)
	if err != nil {
		return fmt.Errorf("encode nearest result: %w", err)
	}

	key := NearestKey(q)
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// InvalidateDataset проходит ключи набора через SCAN и удаляет их UNLINK
func (c *nearestCache) InvalidateDataset(ctx context.Context, datasetID uuid.UUID) (int, error) {
	pattern := fmt.Sprintf("%s:%s:*", nearestKeyPrefix, datasetID)

	removed := 0
	iter := c.client.Scan(ctx, 0, pattern, scanBatch).Iterator()
	batch := make([]string, 0, scanBatch)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := c.client.Unlink(ctx, batch...).Result()
		if err != nil {
			return fmt.Errorf("unlink nearest keys: %w", err)
		}
		removed += int(n)
		batch = batch[:0]
		return nil
	}

	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == scanBatch {
			if err := flush(); err != nil {
				return removed, err
			}
		}
	}
	if err := iter.Err(); err != nil {
		return removed, fmt.Errorf("scan nearest keys: %w", err)
	}
	if err := flush(); err != nil {
		return removed, err
	}

	c.logger.Debug("Nearest cache invalidated",
		zap.String("dataset_id", datasetID.String()),
		zap.Int("removed", removed))
	return removed, nil
}

// NearestKey строит ключ кеша; координаты округляются до 6 знаков (~0.1 м)
func NearestKey(q repository.NearestKey) string {
	return fmt.Sprintf("%s:%s:%.6f:%.6f:%s:%d", nearestKeyPrefix, q.DatasetID, q.Lat, q.Lng, q.Category, q.K)
}
