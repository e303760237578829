package kernel

import (
	"context"
	"fmt"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// TokenStore remembers logged out tokens until they would have expired anyway.
type TokenStore interface {
	Revoke(ctx context.Context, token string, until time.Time) error
	Revoked(ctx context.Context, token string) (bool, error)
}

func NewTokenStore(ctx context.Context, redisAddr string) (TokenStore, error) {
	if redisAddr == "" {
		return NewMemoryTokenStore(), nil
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        redisAddr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &redisTokenStore{rdb: rdb, prefix: "pos:revoked:"}, nil
}

type MemoryTokenStore struct {
	mu     sync.Mutex
	tokens map[string]time.Time
	now    func() time.Time
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{tokens: make(map[string]time.Time), now: time.Now}
}

func (s *MemoryTokenStore) Revoke(_ context.Context, token string, until time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for k, exp := range s.tokens {
		if now.After(exp) {
			delete(s.tokens, k)
		}
	}
	s.tokens[Sha512(token)] = until
	return nil
}

func (s *MemoryTokenStore) Revoked(_ context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	exp, ok := s.tokens[Sha512(token)]
	return ok && !s.now().After(exp), nil
}

type redisTokenStore struct {
	rdb    *goredis.Client
	prefix string
}

func (s *redisTokenStore) Revoke(ctx context.Context, token string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	return s.rdb.Set(ctx, s.prefix+Sha512(token), 1, ttl).Err()
}

func (s *redisTokenStore) Revoked(ctx context.Context, token string) (bool, error) {
	n, err := s.rdb.Exists(ctx, s.prefix+Sha512(token)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
