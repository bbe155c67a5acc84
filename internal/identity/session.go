package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionPrefix = "eac:session:"

// SessionProvider resolves opaque session tokens against Redis.
type SessionProvider struct {
	client *redis.Client
	prefix string
}

type sessionData struct {
	Principal Principal `json:"principal"`
	CreatedAt time.Time `json:"created_at"`
}

// NewSessionProvider connects to redisURL and pings it.
func NewSessionProvider(ctx context.Context, redisURL string) (*SessionProvider, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return NewSessionProviderWithClient(client), nil
}

// NewSessionProviderWithClient wraps an existing client.
func NewSessionProviderWithClient(client *redis.Client) *SessionProvider {
	return &SessionProvider{client: client, prefix: sessionPrefix}
}

func (s *SessionProvider) key(token string) string {
	return s.prefix + HashToken(token)
}

// Save stores a session for token until ttl elapses.
func (s *SessionProvider) Save(ctx context.Context, token string, principal Principal, ttl time.Duration) error {
	if token == "" || principal.Subject == "" {
		return errors.New("token and principal subject are required")
	}
	payload, err := json.Marshal(sessionData{Principal: principal, CreatedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.client.Set(ctx, s.key(token), payload, ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Revoke deletes the session for token.
func (s *SessionProvider) Revoke(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, s.key(token)).Err(); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// Current implements Provider.
func (s *SessionProvider) Current(ctx context.Context) (Principal, error) {
	token, ok := TokenFrom(ctx)
	if !ok {
		return Principal{}, ErrUnauthenticated
	}
	raw, err := s.client.Get(ctx, s.key(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Principal{}, fmt.Errorf("%w: session not found or expired", ErrInvalidToken)
	}
	if err != nil {
		return Principal{}, fmt.Errorf("lookup session: %w", err)
	}
	var data sessionData
	if err := json.Unmarshal(raw, &data); err != nil {
		return Principal{}, fmt.Errorf("%w: decode session: %v", ErrInvalidToken, err)
	}
	return data.Principal, nil
}

// Close closes the Redis connection.
func (s *SessionProvider) Close() error {
	return s.client.Close()
}
