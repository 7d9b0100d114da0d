// ABOUTME: Unit tests for token issuing and verification
// ABOUTME: Tests round-trips, invalid tokens, expiry, and claim validation

package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenTestSecret is a 32-byte secret that meets MinSecretLength.
var tokenTestSecret = []byte("token-codec-test-secret-32-bytes")

// signTestToken signs arbitrary claims with the test secret so tests can
// build tokens the codec itself would never issue.
func signTestToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(tokenTestSecret)
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}
	return signed
}

func TestTokenCodec_RoundTrip(t *testing.T) {
	codec, err := NewTokenCodec(tokenTestSecret, time.Hour)
	if err != nil {
		t.Fatalf("NewTokenCodec() error = %v", err)
	}

	subjectID := "user-123"
	token, err := codec.Issue(subjectID)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	claims, err := codec.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}

	if claims.Subject != subjectID {
		t.Errorf("Verify() subject = %q, want %q", claims.Subject, subjectID)
	}
	gotLifetime := claims.ExpiresAt.Sub(claims.IssuedAt)
	if gotLifetime != time.Hour {
		t.Errorf("token lifetime = %v, want %v", gotLifetime, time.Hour)
	}
}

func TestNewTokenCodec_ShortSecret(t *testing.T) {
	if _, err := NewTokenCodec([]byte("too-short"), time.Hour); err == nil {
		t.Error("NewTokenCodec() with short secret should fail")
	}
}

func TestTokenCodec_InvalidToken(t *testing.T) {
	codec, err := NewTokenCodec(tokenTestSecret, time.Hour)
	if err != nil {
		t.Fatalf("NewTokenCodec() error = %v", err)
	}

	now := time.Now()

	tests := []struct {
		name  string
		token string
	}{
		{
			name:  "empty token",
			token: "",
		},
		{
			name:  "garbage token",
			token: "not-a-jwt-token",
		},
		{
			name:  "malformed JWT",
			token: "header.payload.signature",
		},
		{
			name: "wrong secret",
			token: func() string {
				other, _ := NewTokenCodec([]byte("a-completely-different-secret-32b"), time.Hour)
				token, _ := other.Issue("user-123")
				return token
			}(),
		},
		{
			name: "expired token",
			token: signTestToken(t, jwt.MapClaims{
				"sub": "user-123",
				"iat": now.Add(-2 * time.Hour).Unix(),
				"exp": now.Add(-time.Hour).Unix(),
			}),
		},
		{
			name: "expiry equal to now",
			token: signTestToken(t, jwt.MapClaims{
				"sub": "user-123",
				"iat": now.Add(-time.Hour).Unix(),
				"exp": now.Unix(),
			}),
		},
		{
			name: "missing subject",
			token: signTestToken(t, jwt.MapClaims{
				"iat": now.Unix(),
				"exp": now.Add(time.Hour).Unix(),
			}),
		},
		{
			name: "missing expiry",
			token: signTestToken(t, jwt.MapClaims{
				"sub": "user-123",
				"iat": now.Unix(),
			}),
		},
		{
			name: "unsigned algorithm",
			token: func() string {
				tok := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
					"sub": "user-123",
					"iat": now.Unix(),
					"exp": now.Add(time.Hour).Unix(),
				})
				signed, _ := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
				return signed
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := codec.Verify(tt.token)
			if err == nil {
				t.Fatal("Verify() should fail")
			}
			if !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestTokenCodec_DefaultLifetime(t *testing.T) {
	codec, err := NewTokenCodec(tokenTestSecret, 0)
	if err != nil {
		t.Fatalf("NewTokenCodec() error = %v", err)
	}
	if codec.Lifetime() != DefaultTokenLifetime {
		t.Errorf("Lifetime() = %v, want %v", codec.Lifetime(), DefaultTokenLifetime)
	}
}
