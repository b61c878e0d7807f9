package cache

import (
	"context"
	"crypto/subtle"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	authStateKey = "reddit:authorize:state"
	authStateTTL = 10 * time.Minute
)

// AuthStateCache stores the single pending authorization state token in
// redis. Setting replaces any previous pending state; consuming removes it so
// a state token can match at most once.
type AuthStateCache struct {
	client *redis.Client
}

func NewAuthStateCache(client *redis.Client) *AuthStateCache {
	return &AuthStateCache{client: client}
}

func (c *AuthStateCache) Set(ctx context.Context, state string) error {
	return c.client.Set(ctx, authStateKey, state, authStateTTL).Err()
}

func (c *AuthStateCache) Consume(ctx context.Context, state string) (bool, error) {
	stored, err := c.client.GetDel(ctx, authStateKey).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if state == "" {
		return false, nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(state)) == 1, nil
}
