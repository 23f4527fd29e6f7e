package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jefersongoes36-cmd/DigitalNexusSolutions/internal/model"
)

const (
	usersListKey       = "timedesk:users:list"
	usersGenerationKey = "timedesk:users:generation"
)

// Users caches the full user listing in redis. A nil *Users is valid and
// behaves as an always-empty cache, so callers need no redis-enabled checks.
type Users struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewUsers(client *redis.Client, ttl time.Duration) *Users {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Users{redis: client, ttl: ttl}
}

// Get returns the cached listing. ok is false on a miss.
func (c *Users) Get(ctx context.Context) ([]model.User, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	value, err := c.redis.Get(ctx, usersListKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var users []model.User
	if err := json.Unmarshal(value, &users); err != nil {
		_ = c.redis.Del(ctx, usersListKey).Err()
		return nil, false, err
	}
	return users, true, nil
}

// Generation returns the current listing generation. Read it before
// querying the store and hand it to Set.
func (c *Users) Generation(ctx context.Context) (int64, error) {
	if c == nil {
		return 0, nil
	}
	gen, err := c.redis.Get(ctx, usersGenerationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// Set stores the listing only if no Invalidate ran since gen was read, so a
// slow reader cannot write back a snapshot older than a mutation.
func (c *Users) Set(ctx context.Context, gen int64, users []model.User) error {
	if c == nil {
		return nil
	}
	data, err := json.Marshal(users)
	if err != nil {
		return err
	}
	err = c.redis.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, usersGenerationKey).Int64()
		if errors.Is(err, redis.Nil) {
			current, err = 0, nil
		}
		if err != nil {
			return err
		}
		if current != gen {
			return redis.TxFailedErr
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, usersListKey, data, c.ttl)
			return nil
		})
		return err
	}, usersGenerationKey)
	if errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	return err
}

// Invalidate drops the listing and bumps the generation. Every successful
// user mutation calls it before responding.
func (c *Users) Invalidate(ctx context.Context) error {
	if c == nil {
		return nil
	}
	_, err := c.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, usersListKey)
		pipe.Incr(ctx, usersGenerationKey)
		return nil
	})
	return err
}
