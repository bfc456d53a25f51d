package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenType is the scheme clients present issued tokens with.
const TokenType = "bearer"

// DefaultTokenTTL is the lifetime of an access token.
const DefaultTokenTTL = 24 * time.Hour

// Token is a signed access token.
type Token struct {
	Value     string
	Type      string
	ExpiresAt time.Time
}

// Identity is the subject a valid token was issued to.
type Identity struct {
	Username  string
	ExpiresAt time.Time
}

// TokenCodec signs and verifies HS256 access tokens.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// CodecOption configures a TokenCodec.
type CodecOption func(*TokenCodec)

// WithTTL overrides the token lifetime.
func WithTTL(ttl time.Duration) CodecOption {
	return func(c *TokenCodec) {
		c.ttl = ttl
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) CodecOption {
	return func(c *TokenCodec) {
		c.now = now
	}
}

// NewTokenCodec creates a codec that signs with secret.
func NewTokenCodec(secret []byte, opts ...CodecOption) (*TokenCodec, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("signing secret is required")
	}
	c := &TokenCodec{
		secret: secret,
		ttl:    DefaultTokenTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.ttl <= 0 {
		return nil, fmt.Errorf("token TTL must be positive")
	}
	return c, nil
}

// Issue creates a token for username that expires exactly one TTL after issuance.
// Issuance is truncated to whole seconds, the precision of the encoded timestamps.
func (c *TokenCodec) Issue(username string) (Token, error) {
	issuedAt := c.now().Truncate(time.Second)
	expiresAt := issuedAt.Add(c.ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})

	signed, err := token.SignedString(c.secret)
	if err != nil {
		return Token{}, fmt.Errorf("failed to sign access token: %w", err)
	}

	return Token{
		Value:     signed,
		Type:      TokenType,
		ExpiresAt: expiresAt,
	}, nil
}

// Verify checks the signature and expiry of a token and returns its subject.
func (c *TokenCodec) Verify(tokenString string) (Identity, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, fmt.Errorf("%w: %w", ErrTokenExpired, err)
		}
		return Identity{}, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	if claims.Subject == "" {
		return Identity{}, fmt.Errorf("%w: missing subject", ErrTokenInvalid)
	}

	return Identity{
		Username:  claims.Subject,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
