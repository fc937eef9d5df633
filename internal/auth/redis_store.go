package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"finance-tracker/internal/models"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

// RedisStore keeps sessions in Redis. Keys expire together with their session.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore returns a session store on rdb.
func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

// NewRedisClient connects to the Redis server at url (redis:// or rediss://).
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

type redisSession struct {
	UserID       int64 `json:"user_id"`
	ExpiresAt    int64 `json:"expires_at"`
	LastActivity int64 `json:"last_activity"`
}

// CreateSession implements SessionStore.
func (s *RedisStore) CreateSession(ctx context.Context, session models.Session) error {
	if session.LastActivity.IsZero() {
		session.LastActivity = time.Now()
	}
	return s.put(ctx, session.Token, redisSession{
		UserID:       session.UserID,
		ExpiresAt:    session.ExpiresAt.UnixMilli(),
		LastActivity: session.LastActivity.UnixMilli(),
	})
}

// GetSession implements SessionStore.
func (s *RedisStore) GetSession(ctx context.Context, token string) (*models.Session, error) {
	rs, err := s.get(ctx, token)
	if err != nil {
		return nil, err
	}
	expiresAt := time.UnixMilli(rs.ExpiresAt)
	if !expiresAt.After(time.Now()) {
		return nil, fmt.Errorf("session: %w", models.ErrNotFound)
	}
	return &models.Session{
		Token:        token,
		UserID:       rs.UserID,
		ExpiresAt:    expiresAt,
		LastActivity: time.UnixMilli(rs.LastActivity),
	}, nil
}

// RenewSession implements SessionStore.
func (s *RedisStore) RenewSession(ctx context.Context, token string, expiresAt time.Time) error {
	rs, err := s.get(ctx, token)
	if err != nil {
		return err
	}
	rs.ExpiresAt = expiresAt.UnixMilli()
	rs.LastActivity = time.Now().UnixMilli()
	return s.put(ctx, token, rs)
}

// DeleteSession implements SessionStore.
func (s *RedisStore) DeleteSession(ctx context.Context, token string) error {
	return s.rdb.Del(ctx, sessionKeyPrefix+token).Err()
}

// CleanExpiredSessions implements SessionStore. Redis expires keys on its own.
func (s *RedisStore) CleanExpiredSessions(context.Context) (int64, error) {
	return 0, nil
}

func (s *RedisStore) get(ctx context.Context, token string) (redisSession, error) {
	var rs redisSession
	raw, err := s.rdb.Get(ctx, sessionKeyPrefix+token).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return rs, fmt.Errorf("session: %w", models.ErrNotFound)
		}
		return rs, err
	}
	if err := json.Unmarshal(raw, &rs); err != nil {
		return rs, fmt.Errorf("decode session: %w", err)
	}
	return rs, nil
}

func (s *RedisStore) put(ctx context.Context, token string, rs redisSession) error {
	ttl := time.Until(time.UnixMilli(rs.ExpiresAt))
	if ttl <= 0 {
		return s.DeleteSession(ctx, token)
	}
	raw, err := json.Marshal(rs)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, sessionKeyPrefix+token, raw, ttl).Err()
}
