package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionStore keeps guest carts. A guest cart has no durable storage of its
// own; it lives as long as the session key's TTL.
//
//go:generate mockgen -source=cart_session.go -destination=../mock/cart/cart_session_mock.go -package=mock
type SessionStore interface {
	Load(ctx context.Context, sessionID string) (*Cart, error)
	Save(ctx context.Context, c *Cart) error
	Delete(ctx context.Context, sessionID string) error
	// Claim removes the guest cart and returns what it held in one step, so
	// only one caller ever sees a given cart's contents.
	Claim(ctx context.Context, sessionID string) (*Cart, error)
}

type redisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) SessionStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &redisSessionStore{client: client, ttl: ttl}
}

// Load returns an empty cart for an unknown session.
func (s *redisSessionStore) Load(ctx context.Context, sessionID string) (*Cart, error) {
	data, err := s.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return New(sessionID), nil
	}
	if err != nil {
		return nil, ErrCartPersistence.Wrap(fmt.Errorf("redis get failed: %w", err))
	}
	return decodeSessionCart(sessionID, data)
}

// Claim uses GETDEL. An unknown session claims an empty cart.
func (s *redisSessionStore) Claim(ctx context.Context, sessionID string) (*Cart, error) {
	data, err := s.client.GetDel(ctx, sessionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return New(sessionID), nil
	}
	if err != nil {
		return nil, ErrCartPersistence.Wrap(fmt.Errorf("redis getdel failed: %w", err))
	}
	return decodeSessionCart(sessionID, data)
}

func decodeSessionCart(sessionID string, data []byte) (*Cart, error) {
	var c Cart
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, ErrCartPersistence.Wrap(fmt.Errorf("unmarshal cart failed: %w", err))
	}
	c.OwnerKey = sessionID
	if c.Items == nil {
		c.Items = []Item{}
	}
	return &c, nil
}

// Save writes the whole cart and refreshes the TTL. An empty cart deletes the key.
func (s *redisSessionStore) Save(ctx context.Context, c *Cart) error {
	if c.IsEmpty() {
		return s.Delete(ctx, c.OwnerKey)
	}

	data, err := json.Marshal(c)
	if err != nil {
		return ErrCartPersistence.Wrap(fmt.Errorf("marshal cart failed: %w", err))
	}
	if err := s.client.Set(ctx, sessionKey(c.OwnerKey), data, s.ttl).Err(); err != nil {
		return ErrCartPersistence.Wrap(fmt.Errorf("redis set failed: %w", err))
	}
	return nil
}

func (s *redisSessionStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return ErrCartPersistence.Wrap(fmt.Errorf("redis delete failed: %w", err))
	}
	return nil
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("cart:session:%s", sessionID)
}
