// Package session provides the stores behind auth.SessionStore: Redis for
// deployments and an in-process map for single-binary and test setups.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"pdv/internal/core/apperror"
	"pdv/internal/core/id"
	"pdv/internal/domain/auth"
)

const defaultKeyPrefix = "pdv:session:"

// RedisConfig holds the Redis connection settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RedisStore keeps each session as a JSON value with the session TTL and
// indexes session ids per user in a set, so a user can be signed out everywhere.
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
}

var _ auth.SessionStore = (*RedisStore)(nil)

// NewRedisClient creates a client with conservative pool settings.
func NewRedisClient(cfg RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
}

// NewRedisStore creates a store on an existing client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, keyPrefix: defaultKeyPrefix}
}

func (s *RedisStore) sessionKey(sessionID string) string {
	return s.keyPrefix + sessionID
}

func (s *RedisStore) userKey(userID id.ID) string {
	return s.keyPrefix + "user:" + userID.String()
}

// Save implements auth.SessionStore.
func (s *RedisStore) Save(ctx context.Context, sess *auth.Session, ttl time.Duration) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.sessionKey(sess.ID), data, ttl)
	pipe.SAdd(ctx, s.userKey(sess.UserID), sess.ID)
	pipe.Expire(ctx, s.userKey(sess.UserID), ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Get implements auth.SessionStore.
func (s *RedisStore) Get(ctx context.Context, sessionID string) (*auth.Session, error) {
	data, err := s.client.Get(ctx, s.sessionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, apperror.NewUnauthorized("session expired or signed out")
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	var sess auth.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &sess, nil
}

// Delete implements auth.SessionStore.
func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	sess, err := s.Get(ctx, sessionID)
	if err != nil {
		if _, ok := apperror.AsAppError(err); ok {
			return nil
		}
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.sessionKey(sessionID))
	pipe.SRem(ctx, s.userKey(sess.UserID), sessionID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteByUser implements auth.SessionStore.
func (s *RedisStore) DeleteByUser(ctx context.Context, userID id.ID) error {
	ids, err := s.client.SMembers(ctx, s.userKey(userID)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("list user sessions: %w", err)
	}

	keys := make([]string, 0, len(ids)+1)
	for _, sid := range ids {
		keys = append(keys, s.sessionKey(sid))
	}
	keys = append(keys, s.userKey(userID))

	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("delete user sessions: %w", err)
	}
	return nil
}

// Ping implements auth.SessionStore.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
