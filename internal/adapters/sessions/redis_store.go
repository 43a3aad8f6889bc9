package sessions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"route-notify-service/internal/ports"
)

const keyPrefix = "session:"

// RedisStore keeps sessions in Redis with the session timeout as the key
// TTL, so expired sessions vanish without a sweeper.
type RedisStore struct {
	Client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{Client: client}
}

func (s *RedisStore) Put(ctx context.Context, sess ports.Session, ttl time.Duration) error {
	if s.Client == nil {
		return errors.New("session store: redis client is nil")
	}

	val := sess.LoginTime.UTC().Format(time.RFC3339Nano)
	if err := s.Client.Set(ctx, keyPrefix+sess.Token, val, ttl).Err(); err != nil {
		return fmt.Errorf("put session: %w", err)
	}

	return nil
}

func (s *RedisStore) Get(ctx context.Context, token string) (*ports.Session, error) {
	if s.Client == nil {
		return nil, errors.New("session store: redis client is nil")
	}

	val, err := s.Client.Get(ctx, keyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	loginTime, err := time.Parse(time.RFC3339Nano, val)
	if err != nil {
		return nil, fmt.Errorf("get session: parse login time: %w", err)
	}

	return &ports.Session{Token: token, LoginTime: loginTime}, nil
}

func (s *RedisStore) Delete(ctx context.Context, token string) error {
	if s.Client == nil {
		return errors.New("session store: redis client is nil")
	}

	if err := s.Client.Del(ctx, keyPrefix+token).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	return nil
}
