// Package idempotency remembers which reservation a client's
// Idempotency-Key produced, so a resubmitted booking returns the original.
package idempotency

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/barber-reservations/internal/httperr"
)

const DefaultTTL = 24 * time.Hour

// Connect parses a redis URL (or a bare host:port) and pings the server.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		if strings.Contains(url, "://") {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		opts = &redis.Options{Addr: url}
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

// ValidateKey accepts only UUIDs so keys cannot collide across clients by
// accident.
func ValidateKey(key string) error {
	if _, err := uuid.Parse(key); err != nil {
		return httperr.Validation("invalid_idempotency_key", map[string]string{
			"Idempotency-Key": "must be a UUID",
		})
	}
	return nil
}

func redisKey(userID uint, key string) string {
	return fmt.Sprintf("idem:%d:%s", userID, strings.ToLower(key))
}

// Lookup returns the reservation id stored for (userID, key).
func (s *RedisStore) Lookup(ctx context.Context, userID uint, key string) (uint, bool, error) {
	val, err := s.client.Get(ctx, redisKey(userID, key)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("idempotency lookup: %w", err)
	}

	id, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("idempotency lookup: corrupt value %q", val)
	}
	return uint(id), true, nil
}

// Remember stores reservationID for (userID, key) unless the key is
// already taken. It reports whether this call stored the value.
func (s *RedisStore) Remember(ctx context.Context, userID uint, key string, reservationID uint) (bool, error) {
	ok, err := s.client.SetNX(ctx, redisKey(userID, key), strconv.FormatUint(uint64(reservationID), 10), s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("idempotency remember: %w", err)
	}
	return ok, nil
}
