// Package identity resolves the authenticated principal behind a call. The
// core consults a Provider before every mutating operation.
package identity

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnauthenticated reports that no principal is attached to the call.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrInvalidToken reports a token that failed verification or lookup.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken reports a token past its expiry.
	ErrExpiredToken = errors.New("expired token")
)

// Principal is the authenticated caller.
type Principal struct {
	Subject string `json:"sub"`
	Name    string `json:"name,omitempty"`
	Role    string `json:"role,omitempty"`
}

// Provider returns the current principal or an error wrapping ErrUnauthenticated,
// ErrInvalidToken or ErrExpiredToken.
type Provider interface {
	Current(ctx context.Context) (Principal, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context) (Principal, error)

func (f ProviderFunc) Current(ctx context.Context) (Principal, error) { return f(ctx) }

type tokenKey struct{}

// WithToken attaches a bearer token to ctx for token-based providers.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, strings.TrimSpace(token))
}

// TokenFrom returns the bearer token attached to ctx.
func TokenFrom(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey{}).(string)
	return token, ok && token != ""
}

// Static always returns the same principal. A zero principal means nobody is
// signed in.
type Static struct {
	Principal Principal
}

func (s Static) Current(context.Context) (Principal, error) {
	if s.Principal.Subject == "" {
		return Principal{}, ErrUnauthenticated
	}
	return s.Principal, nil
}

// Anonymous returns a provider with no principal.
func Anonymous() Provider { return Static{} }

// HashToken returns the hex sha256 of a token; sessions are keyed by it so
// raw tokens never reach the session store.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", sum)
}
