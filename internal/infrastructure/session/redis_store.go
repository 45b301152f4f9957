package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ai-blog-writer-api/internal/infrastructure/persistence/redis"
	apperrors "ai-blog-writer-api/pkg/errors"
)

// RedisStore 基于 Redis Hash 的会话存储，一个会话一个哈希键
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore 创建 Redis 会话存储；ttl 为 0 表示不过期
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func sessionKey(sessionID string) string {
	return "session:" + sessionID
}

func (s *RedisStore) Get(ctx context.Context, sessionID, field string) (string, error) {
	value, err := s.client.HGet(ctx, sessionKey(sessionID), field)
	if err != nil {
		if redis.IsNil(err) {
			return "", nil
		}
		return "", apperrors.Wrap(err, apperrors.CodeSessionState,
			fmt.Sprintf("failed to read session field %s", field))
	}
	return value, nil
}

func (s *RedisStore) Set(ctx context.Context, sessionID, field, value string) error {
	// 空值写入为空操作，避免把已有产物冲掉
	if strings.TrimSpace(value) == "" {
		return nil
	}

	key := sessionKey(sessionID)
	if err := s.client.HSet(ctx, key, field, value); err != nil {
		return apperrors.Wrap(err, apperrors.CodeSessionState,
			fmt.Sprintf("failed to write session field %s", field))
	}
	if s.ttl > 0 {
		if err := s.client.Expire(ctx, key, s.ttl); err != nil {
			return apperrors.Wrap(err, apperrors.CodeSessionState,
				"failed to refresh session ttl")
		}
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, sessionKey(sessionID)); err != nil {
		return apperrors.Wrap(err, apperrors.CodeSessionState,
			"failed to clear session")
	}
	return nil
}
