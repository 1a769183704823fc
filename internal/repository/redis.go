package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DocumentKeyPrefix namespaces document keys in Redis.
const DocumentKeyPrefix = "clique:doc:"

type redisDocumentRepository struct {
	client *redis.Client
}

// NewRedisDocumentRepository stores documents as plain string values.
func NewRedisDocumentRepository(client *redis.Client) DocumentRepository {
	return &redisDocumentRepository{client: client}
}

func (r *redisDocumentRepository) Get(ctx context.Context, key string) ([]byte, error) {
	body, err := r.client.Get(ctx, DocumentKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return body, nil
}

func (r *redisDocumentRepository) Put(ctx context.Context, key string, _ int, body []byte) error {
	if err := r.client.Set(ctx, DocumentKeyPrefix+key, body, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (r *redisDocumentRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *redisDocumentRepository) Name() string { return "redis" }
