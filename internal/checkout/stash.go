package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNoSession means no checkout form has been stashed for the user, or the
// stash expired before the order was finalized.
var ErrNoSession = errors.New("no checkout session")

// FormData is collected on the checkout screen and consumed exactly once by
// the order finalizer.
type FormData struct {
	FirstName    string `json:"firstName" validate:"required"`
	LastName     string `json:"lastName" validate:"required"`
	AddressLine1 string `json:"addressLine1" validate:"required"`
	AddressLine2 string `json:"addressLine2"`
	City         string `json:"city" validate:"required"`
	Zipcode      string `json:"zipcode" validate:"required"`
	Phone        string `json:"phone" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
}

type Stash interface {
	Put(ctx context.Context, userID int64, form *FormData) error
	Get(ctx context.Context, userID int64) (*FormData, error)
	Delete(ctx context.Context, userID int64) error
}

type redisStash struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStash stores checkout forms in redis under a per-user key with a
// TTL, the server-side analog of a tab-scoped session store.
func NewRedisStash(client *redis.Client, ttl time.Duration) Stash {
	return &redisStash{client: client, ttl: ttl}
}

func (s *redisStash) Put(ctx context.Context, userID int64, form *FormData) error {
	data, err := json.Marshal(form)
	if err != nil {
		return fmt.Errorf("failed to marshal checkout form: %w", err)
	}

	if err := s.client.Set(ctx, stashKey(userID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to stash checkout form: %w", err)
	}

	return nil
}

func (s *redisStash) Get(ctx context.Context, userID int64) (*FormData, error) {
	val, err := s.client.Get(ctx, stashKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read checkout form: %w", err)
	}

	var form FormData
	if err := json.Unmarshal([]byte(val), &form); err != nil {
		return nil, fmt.Errorf("failed to unmarshal checkout form: %w", err)
	}

	return &form, nil
}

func (s *redisStash) Delete(ctx context.Context, userID int64) error {
	return s.client.Del(ctx, stashKey(userID)).Err()
}

func stashKey(userID int64) string {
	return fmt.Sprintf("checkout:%d", userID)
}
