package cache

import (
	"campussafety/internal/model"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LocationCache fronts the location lookup per account
type LocationCache interface {
	Get(ctx context.Context, accountID string) ([]model.Location, error)
	Set(ctx context.Context, accountID string, locations []model.Location) error
	Invalidate(ctx context.Context, accountID string) error
}

type locationCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewLocationCache(client *redis.Client) LocationCache {
	return &locationCache{
		client: client,
		ttl:    10 * time.Minute,
	}
}

func (c *locationCache) key(accountID string) string {
	return fmt.Sprintf("account:%s:locations", accountID)
}

// Get returns nil, nil on a miss
func (c *locationCache) Get(ctx context.Context, accountID string) ([]model.Location, error) {
	data, err := c.client.Get(ctx, c.key(accountID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	locations := []model.Location{}
	if err := json.Unmarshal([]byte(data), &locations); err != nil {
		return nil, err
	}
	return locations, nil
}

func (c *locationCache) Set(ctx context.Context, accountID string, locations []model.Location) error {
	data, err := json.Marshal(locations)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(accountID), data, c.ttl).Err()
}

func (c *locationCache) Invalidate(ctx context.Context, accountID string) error {
	return c.client.Del(ctx, c.key(accountID)).Err()
}
