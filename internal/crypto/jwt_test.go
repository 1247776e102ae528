package crypto

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func testTokenService(t *testing.T) *TokenService {
	t.Helper()
	ts, err := NewTokenService("test-secret-at-least-16-chars", time.Hour, 7*24*time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService() unexpected error: %v", err)
	}
	return ts
}

func TestNewTokenServiceShortSecret(t *testing.T) {
	if _, err := NewTokenService("short", time.Hour, time.Hour); err == nil {
		t.Error("NewTokenService() should reject short secrets")
	}
}

func TestIssueAndVerifyAccessToken(t *testing.T) {
	ts := testTokenService(t)

	token, err := ts.IssueAccessToken("user-1", "alice@example.com")
	if err != nil {
		t.Fatalf("IssueAccessToken() unexpected error: %v", err)
	}

	claims, err := ts.Verify(token)
	if err != nil {
		t.Fatalf("Verify() unexpected error: %v", err)
	}
	if claims.Subject != "user-1" {
		t.Errorf("Subject = %q, want %q", claims.Subject, "user-1")
	}
	if claims.Email != "alice@example.com" {
		t.Errorf("Email = %q, want %q", claims.Email, "alice@example.com")
	}
}

func TestVerifyIsIdempotent(t *testing.T) {
	ts := testTokenService(t)

	token, err := ts.IssueAccessToken("user-1", "alice@example.com")
	if err != nil {
		t.Fatalf("IssueAccessToken() unexpected error: %v", err)
	}

	first, err := ts.Verify(token)
	if err != nil {
		t.Fatalf("first Verify() unexpected error: %v", err)
	}
	second, err := ts.Verify(token)
	if err != nil {
		t.Fatalf("second Verify() unexpected error: %v", err)
	}
	if first.Subject != second.Subject || first.Email != second.Email {
		t.Error("repeated Verify() of the same token should decode the same identity")
	}
}

func TestVerifyFailures(t *testing.T) {
	ts := testTokenService(t)

	expiredTS, err := NewTokenService("test-secret-at-least-16-chars", -time.Minute, -time.Minute)
	if err != nil {
		t.Fatalf("NewTokenService() unexpected error: %v", err)
	}
	expired, err := expiredTS.IssueAccessToken("user-1", "alice@example.com")
	if err != nil {
		t.Fatalf("IssueAccessToken() unexpected error: %v", err)
	}

	otherTS, err := NewTokenService("another-secret-16-chars-long", time.Hour, time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService() unexpected error: %v", err)
	}
	wrongKey, err := otherTS.IssueAccessToken("user-1", "alice@example.com")
	if err != nil {
		t.Fatalf("IssueAccessToken() unexpected error: %v", err)
	}

	valid, err := ts.IssueAccessToken("user-1", "alice@example.com")
	if err != nil {
		t.Fatalf("IssueAccessToken() unexpected error: %v", err)
	}
	parts := strings.Split(valid, ".")
	tampered := parts[0] + ".eyJzdWIiOiJzb21lb25lLWVsc2UifQ." + parts[2]

	tests := []struct {
		name  string
		token string
	}{
		{"malformed", "not-a-jwt"},
		{"empty", ""},
		{"expired", expired},
		{"wrong key", wrongKey},
		{"tampered payload", tampered},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ts.Verify(tt.token)
			if !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Verify(%s) error = %v, want ErrInvalidToken", tt.name, err)
			}
		})
	}
}

func TestDecodeSkipsSignatureCheck(t *testing.T) {
	ts := testTokenService(t)

	otherTS, err := NewTokenService("another-secret-16-chars-long", time.Hour, time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService() unexpected error: %v", err)
	}
	foreign, err := otherTS.IssueAccessToken("user-9", "bob@example.com")
	if err != nil {
		t.Fatalf("IssueAccessToken() unexpected error: %v", err)
	}

	// Decode trusts the caller: it extracts claims even though ts cannot
	// verify this token's signature.
	claims, err := ts.Decode(foreign)
	if err != nil {
		t.Fatalf("Decode() unexpected error: %v", err)
	}
	if claims.Subject != "user-9" {
		t.Errorf("Subject = %q, want %q", claims.Subject, "user-9")
	}

	if _, err := ts.Decode("garbage"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Decode(garbage) error = %v, want ErrInvalidToken", err)
	}
}

func TestRefreshTokenOutlivesAccessToken(t *testing.T) {
	ts, err := NewTokenService("test-secret-at-least-16-chars", time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService() unexpected error: %v", err)
	}

	access, err := ts.IssueAccessToken("user-1", "alice@example.com")
	if err != nil {
		t.Fatalf("IssueAccessToken() unexpected error: %v", err)
	}
	refresh, err := ts.IssueRefreshToken("user-1", "alice@example.com")
	if err != nil {
		t.Fatalf("IssueRefreshToken() unexpected error: %v", err)
	}

	accessClaims, err := ts.Verify(access)
	if err != nil {
		t.Fatalf("Verify(access) unexpected error: %v", err)
	}
	refreshClaims, err := ts.Verify(refresh)
	if err != nil {
		t.Fatalf("Verify(refresh) unexpected error: %v", err)
	}

	if !refreshClaims.ExpiresAt.After(accessClaims.ExpiresAt.Time) {
		t.Error("refresh token should expire after the access token")
	}
}
