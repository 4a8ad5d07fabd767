package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/metrics"
)

const itemKeyPrefix = "shareit:item:"

// NewRedisClient creates a Redis client and checks the connection.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

// ItemCache is an item.Repository that keeps items read by id in Redis.
// Updates go to the wrapped store first and then drop the cached copy.
// Redis failures are logged and the store is used instead.
type ItemCache struct {
	item.Repository

	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

func NewItemCache(repo item.Repository, client *redis.Client, ttl time.Duration, log zerolog.Logger) *ItemCache {
	return &ItemCache{
		Repository: repo,
		client:     client,
		ttl:        ttl,
		log:        log.With().Str("component", "item-cache").Logger(),
	}
}

func itemKey(id string) string {
	return itemKeyPrefix + id
}

func (c *ItemCache) GetByID(ctx context.Context, id string) (*item.Item, error) {
	val, err := c.client.Get(ctx, itemKey(id)).Bytes()
	switch {
	case err == nil:
		var it item.Item
		if err := json.Unmarshal(val, &it); err == nil {
			metrics.RecordItemCacheLookup("hit")
			return &it, nil
		}
		c.log.Warn().Str("item_id", id).Msg("dropping undecodable cache entry")
	case errors.Is(err, redis.Nil):
		metrics.RecordItemCacheLookup("miss")
	default:
		metrics.RecordItemCacheLookup("error")
		c.log.Warn().Err(err).Str("item_id", id).Msg("item cache read failed")
	}

	it, err := c.Repository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(it)
	if err != nil {
		return it, nil
	}
	if err := c.client.Set(ctx, itemKey(id), data, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("item_id", id).Msg("item cache write failed")
	}
	return it, nil
}

func (c *ItemCache) Update(ctx context.Context, it *item.Item) error {
	if err := c.Repository.Update(ctx, it); err != nil {
		return err
	}
	if err := c.client.Del(ctx, itemKey(it.ID)).Err(); err != nil {
		c.log.Warn().Err(err).Str("item_id", it.ID).Msg("item cache invalidation failed")
	}
	return nil
}
