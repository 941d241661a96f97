package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Store holds at most one saga per user. Sagas expire with the key TTL;
// an expired saga leaves nothing behind because nothing was persisted.
//
//go:generate mockgen -source=checkout_store.go -destination=../mock/checkout/checkout_store_mock.go -package=mock
type Store interface {
	Load(ctx context.Context, userID uuid.UUID) (*Saga, error)
	Save(ctx context.Context, saga *Saga) error
	Delete(ctx context.Context, userID uuid.UUID) error
	TTL() time.Duration
}

type redisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) Store {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &redisStore{client: client, ttl: ttl}
}

// Load returns ErrCheckoutNotFound when the user has no live saga.
func (s *redisStore) Load(ctx context.Context, userID uuid.UUID) (*Saga, error) {
	data, err := s.client.Get(ctx, sagaKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCheckoutNotFound
	}
	if err != nil {
		return nil, ErrCheckoutPersistence.Wrap(fmt.Errorf("redis get failed: %w", err))
	}

	var saga Saga
	if err := json.Unmarshal(data, &saga); err != nil {
		return nil, ErrCheckoutPersistence.Wrap(fmt.Errorf("unmarshal saga failed: %w", err))
	}
	return &saga, nil
}

// Save writes the saga and restarts its TTL.
func (s *redisStore) Save(ctx context.Context, saga *Saga) error {
	data, err := json.Marshal(saga)
	if err != nil {
		return ErrCheckoutPersistence.Wrap(fmt.Errorf("marshal saga failed: %w", err))
	}
	if err := s.client.Set(ctx, sagaKey(saga.UserID), data, s.ttl).Err(); err != nil {
		return ErrCheckoutPersistence.Wrap(fmt.Errorf("redis set failed: %w", err))
	}
	return nil
}

func (s *redisStore) Delete(ctx context.Context, userID uuid.UUID) error {
	if err := s.client.Del(ctx, sagaKey(userID)).Err(); err != nil {
		return ErrCheckoutPersistence.Wrap(fmt.Errorf("redis delete failed: %w", err))
	}
	return nil
}

func (s *redisStore) TTL() time.Duration {
	return s.ttl
}

func sagaKey(userID uuid.UUID) string {
	return fmt.Sprintf("checkout:%s", userID)
}
