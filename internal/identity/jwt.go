package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is the signed token payload.
type Claims struct {
	Name string `json:"name,omitempty"`
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// JWTProvider verifies HS256 bearer tokens carried in the context.
type JWTProvider struct {
	secret []byte
	now    func() time.Time
}

// NewJWTProvider returns a provider keyed by secret.
func NewJWTProvider(secret []byte, now func() time.Time) (*JWTProvider, error) {
	if len(secret) == 0 {
		return nil, errors.New("jwt secret is required")
	}
	if now == nil {
		now = time.Now
	}
	return &JWTProvider{secret: secret, now: now}, nil
}

// Issue signs a token for p valid for ttl.
func (p *JWTProvider) Issue(principal Principal, ttl time.Duration) (string, error) {
	if principal.Subject == "" {
		return "", errors.New("principal subject is required")
	}
	issued := p.now()
	claims := Claims{
		Name: principal.Name,
		Role: principal.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   principal.Subject,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Current implements Provider.
func (p *JWTProvider) Current(ctx context.Context) (Principal, error) {
	raw, ok := TokenFrom(ctx)
	if !ok {
		return Principal{}, ErrUnauthenticated
	}
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return p.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(p.now), jwt.WithExpirationRequired())
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return Principal{}, fmt.Errorf("%w: %v", ErrExpiredToken, err)
	case err != nil:
		return Principal{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return Principal{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return Principal{Subject: claims.Subject, Name: claims.Name, Role: claims.Role}, nil
}
