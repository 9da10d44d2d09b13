// Package redis implements the durable key-value state store on Redis.
// Values are stored as JSON blobs under fixed keys.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/gauravasodariya/crux-finance/internal/core/ports"
)

// StateStore persists application state snapshots in Redis.
type StateStore struct {
	client *goredis.Client
}

var _ ports.StateStore = (*StateStore)(nil)

// NewStateStore wraps an already-configured Redis client.
func NewStateStore(client *goredis.Client) *StateStore {
	return &StateStore{client: client}
}

// Connect dials Redis and verifies the connection with a ping.
func Connect(ctx context.Context, addr, password string, db int) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return client, nil
}

// Save marshals value to JSON and stores it under key. Values have no TTL;
// state survives until explicitly removed.
func (s *StateStore) Save(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal state for key %s: %w", key, err)
	}
	if err := s.client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save state for key %s: %w", key, err)
	}
	return nil
}

// Load reads the JSON blob under key into dest. Returns
// ports.ErrStateNotFound when the key has never been written.
func (s *StateStore) Load(ctx context.Context, key string, dest any) error {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return ports.ErrStateNotFound
		}
		return fmt.Errorf("failed to load state for key %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to decode state for key %s: %w", key, err)
	}
	return nil
}

// Remove deletes the key. Removing an absent key is not an error.
func (s *StateStore) Remove(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to remove state for key %s: %w", key, err)
	}
	return nil
}

// Ping reports backend health for readiness checks.
func (s *StateStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
