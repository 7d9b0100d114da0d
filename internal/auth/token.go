// ABOUTME: JWT token issue/verify for authenticating requests
// ABOUTME: Uses HS256 signing with a server-held secret and fixed lifetime

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned when a token fails the signature check, cannot
// be parsed, or is expired. All causes collapse to this one sentinel.
var ErrInvalidToken = errors.New("invalid token")

// DefaultTokenLifetime is how long issued tokens stay valid.
const DefaultTokenLifetime = time.Hour

// MinSecretLength is the minimum acceptable signing secret size in bytes.
const MinSecretLength = 32

// Claims is the decoded identity claim carried inside a token.
type Claims struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenCodec encodes and decodes signed, time-bounded identity claims.
type TokenCodec struct {
	secret   []byte
	lifetime time.Duration
}

// NewTokenCodec creates a codec signing with the given secret. A lifetime
// of zero or less selects DefaultTokenLifetime.
func NewTokenCodec(secret []byte, lifetime time.Duration) (*TokenCodec, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("signing secret must be at least %d bytes", MinSecretLength)
	}
	if lifetime <= 0 {
		lifetime = DefaultTokenLifetime
	}
	return &TokenCodec{secret: secret, lifetime: lifetime}, nil
}

// Issue creates a signed token for the given subject id with
// iat = now and exp = now + lifetime.
func (c *TokenCodec) Issue(subjectID string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": subjectID,
		"iat": now.Unix(),
		"exp": now.Add(c.lifetime).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Verify validates the token signature and expiry and returns the decoded
// claims. No clock-skew leniency is applied: a token whose exp equals the
// current instant is already expired. Every failure wraps ErrInvalidToken.
func (c *TokenCodec) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: token expired", ErrInvalidToken)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return nil, fmt.Errorf("%w: missing sub claim", ErrInvalidToken)
	}

	iat, err := claims.GetIssuedAt()
	if err != nil || iat == nil {
		return nil, fmt.Errorf("%w: missing iat claim", ErrInvalidToken)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, fmt.Errorf("%w: missing exp claim", ErrInvalidToken)
	}

	return &Claims{
		Subject:   sub,
		IssuedAt:  iat.Time,
		ExpiresAt: exp.Time,
	}, nil
}

// Lifetime returns the configured token lifetime.
func (c *TokenCodec) Lifetime() time.Duration {
	return c.lifetime
}
