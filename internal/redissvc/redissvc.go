package redissvc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrTokenNotFound is returned when a refresh token is unknown or expired.
var ErrTokenNotFound = errors.New("refresh token not found")

type RedisService struct {
	rdb *redis.Client
	ctx context.Context
}

func NewRedisService(rdb *redis.Client, ctx context.Context) *RedisService {
	return &RedisService{
		rdb: rdb,
		ctx: ctx,
	}
}

func refreshKey(token string) string {
	return "refresh_token:" + token
}

// Save stores a refresh token with its owner, expiring after ttl.
func (s *RedisService) Save(token, username string, ttl time.Duration) error {
	if err := s.rdb.Set(s.ctx, refreshKey(token), username, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}
	return nil
}

// Lookup resolves a refresh token to its owner.
func (s *RedisService) Lookup(token string) (string, error) {
	username, err := s.rdb.Get(s.ctx, refreshKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrTokenNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up refresh token: %w", err)
	}
	return username, nil
}

// Revoke deletes a refresh token. Revoking an unknown token is not an error.
func (s *RedisService) Revoke(token string) error {
	if err := s.rdb.Del(s.ctx, refreshKey(token)).Err(); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}
