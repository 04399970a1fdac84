package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const topicKeyPrefix = "topic:"

// TopicCache keeps topic detail payloads in Redis so repeated public reads
// skip the three-table join. A miss is reported as (nil, nil).
type TopicCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewTopicCache(client *redis.Client, ttl time.Duration) *TopicCache {
	return &TopicCache{client: client, ttl: ttl}
}

func (c *TopicCache) Get(ctx context.Context, title string) (*TopicDetail, error) {
	raw, err := c.client.Get(ctx, topicKeyPrefix+title).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}
	var detail TopicDetail
	if err := json.Unmarshal(raw, &detail); err != nil {
		return nil, fmt.Errorf("cache decode: %w", err)
	}
	return &detail, nil
}

func (c *TopicCache) Set(ctx context.Context, detail TopicDetail) error {
	raw, err := json.Marshal(detail)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	if err := c.client.Set(ctx, topicKeyPrefix+detail.Title, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

func (c *TopicCache) Invalidate(ctx context.Context, title string) error {
	if err := c.client.Del(ctx, topicKeyPrefix+title).Err(); err != nil {
		return fmt.Errorf("cache invalidate: %w", err)
	}
	return nil
}
