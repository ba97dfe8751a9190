package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestTokensRoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tk := newTokens(testSecret, "acervo", time.Hour)
	tk.now = fixedClock(now)

	token, err := tk.issue("admin")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if token.TokenType != "bearer" {
		t.Errorf("token type: got %s, want bearer", token.TokenType)
	}
	if !token.ExpiresAt.Equal(now.Add(time.Hour)) {
		t.Errorf("expires at: got %v", token.ExpiresAt)
	}

	sub, err := tk.verify(token.AccessToken)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if sub != "admin" {
		t.Errorf("subject: got %s, want admin", sub)
	}
}

func TestTokensRejected(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	issuer := newTokens(testSecret, "acervo", time.Hour)
	issuer.now = fixedClock(now)

	token, err := issuer.issue("admin")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "admin",
		Issuer:    "acervo",
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "admin",
		Issuer:  "acervo",
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	tests := []struct {
		name     string
		verifier *tokens
		raw      string
	}{
		{"expired", withClock(newTokens(testSecret, "acervo", time.Hour), now.Add(2*time.Hour)), token.AccessToken},
		{"wrong secret", withClock(newTokens("fedcba9876543210fedcba9876543210", "acervo", time.Hour), now), token.AccessToken},
		{"wrong issuer", withClock(newTokens(testSecret, "other", time.Hour), now), token.AccessToken},
		{"alg none", withClock(newTokens(testSecret, "acervo", time.Hour), now), unsigned},
		{"no expiry", withClock(newTokens(testSecret, "acervo", time.Hour), now), noExpiry},
		{"garbage", withClock(newTokens(testSecret, "acervo", time.Hour), now), "not.a.token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.verifier.verify(tt.raw)
			if !errors.Is(err, ErrUnauthorized) {
				t.Errorf("error: got %v, want ErrUnauthorized", err)
			}
		})
	}
}

func withClock(tk *tokens, now time.Time) *tokens {
	tk.now = fixedClock(now)
	return tk
}
