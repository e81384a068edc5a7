package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"matchmaking/domain"
	"matchmaking/identity"
)

const credentialKeyPrefix = "matchmaking:credential:"

// RedisRepo stores credential hashes with a sliding TTL, so credentials of
// clients that disappear without a DisconnectRequest eventually expire.
type RedisRepo struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisRepo(client *redis.Client, ttl time.Duration) *RedisRepo {
	return &RedisRepo{client: client, ttl: ttl}
}

func (r *RedisRepo) SaveCredential(ctx context.Context, connectionId, passwordHash string) error {
	created, err := r.client.SetNX(ctx, credentialKeyPrefix+connectionId, passwordHash, r.ttl).Result()
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrUnexpectedDatabase, err)
	}
	if !created {
		return identity.ErrDuplicateConnectionId
	}
	return nil
}

func (r *RedisRepo) GetPasswordHash(ctx context.Context, connectionId string) (string, error) {
	key := credentialKeyPrefix + connectionId

	hash, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", identity.ErrConnectionNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrUnexpectedDatabase, err)
	}

	// Sliding expiry: an active connection keeps its credential alive.
	r.client.Expire(ctx, key, r.ttl)

	return hash, nil
}

func (r *RedisRepo) DeleteCredential(ctx context.Context, connectionId string) error {
	removed, err := r.client.Del(ctx, credentialKeyPrefix+connectionId).Result()
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrUnexpectedDatabase, err)
	}
	if removed == 0 {
		return identity.ErrConnectionNotFound
	}
	return nil
}

func (r *RedisRepo) Close() error {
	return r.client.Close()
}
