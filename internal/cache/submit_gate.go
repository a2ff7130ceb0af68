package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// SubmitGate keeps a second submit of the same session from starting while
// one is outstanding. The lock expires after ttl if never released.
type SubmitGate interface {
	Acquire(ctx context.Context, assignmentID, account string) (bool, error)
	Release(ctx context.Context, assignmentID, account string) error
}

type submitGate struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSubmitGate(client *redis.Client, ttl time.Duration) SubmitGate {
	return &submitGate{
		client: client,
		ttl:    ttl,
	}
}

func (g *submitGate) key(assignmentID, account string) string {
	return sessionKey(assignmentID, account) + ":submitting"
}

func (g *submitGate) Acquire(ctx context.Context, assignmentID, account string) (bool, error) {
	return g.client.SetNX(ctx, g.key(assignmentID, account), time.Now().UTC().Format(time.RFC3339), g.ttl).Result()
}

func (g *submitGate) Release(ctx context.Context, assignmentID, account string) error {
	return g.client.Del(ctx, g.key(assignmentID, account)).Err()
}
