package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/docvault/backend/internal/storage/models"
	"github.com/docvault/backend/pkg/logger"
	"github.com/docvault/backend/pkg/utils"
)

// Client caches mapped search responses. Every entry lives under the
// "search:" key prefix so ingestion can invalidate the whole namespace.
type Client struct {
	client *redis.Client
}

func NewClient(ctx context.Context, host string, port int, password string, db int) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	})

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("redis cache initialized", zap.String("addr", fmt.Sprintf("%s:%d", host, port)))

	return &Client{client: client}, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

func searchKey(query string) string {
	return "search:" + utils.HashString(query)
}

// SetSearch stores one mapped search response under the query's hash.
func (c *Client) SetSearch(ctx context.Context, query string, result *models.SearchResult, ttl time.Duration) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal search result: %w", err)
	}

	if err := c.client.Set(ctx, searchKey(query), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set search cache: %w", err)
	}

	logger.Debug("search response cached", zap.String("query", query), zap.Duration("ttl", ttl))
	return nil
}

// GetSearch loads a cached response into result, reporting whether the cache
// held one.
func (c *Client) GetSearch(ctx context.Context, query string, result *models.SearchResult) (bool, error) {
	data, err := c.client.Get(ctx, searchKey(query)).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get search cache: %w", err)
	}

	if err := json.Unmarshal(data, result); err != nil {
		return false, fmt.Errorf("failed to unmarshal search result: %w", err)
	}

	logger.Debug("search cache hit", zap.String("query", query))
	return true, nil
}

// InvalidateSearch drops every cached search response. Called after each
// successful ingestion; new documents must become findable without waiting
// out the TTL.
func (c *Client) InvalidateSearch(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, "search:*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			logger.Warn("failed to delete cache key", zap.Error(err))
		}
	}

	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to iterate cache keys: %w", err)
	}

	logger.Debug("search cache invalidated")
	return nil
}
