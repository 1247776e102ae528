package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/devconnect/devconnect-go/internal/crypto"
)

func newTestTokenService(t *testing.T) *crypto.TokenService {
	t.Helper()
	tokens, err := crypto.NewTokenService("test-secret-test-secret", time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService() unexpected error: %v", err)
	}
	return tokens
}

func TestJWTAuth(t *testing.T) {
	tokens := newTestTokenService(t)

	valid, err := tokens.IssueAccessToken("64f000000000000000000001", "alice@example.com")
	if err != nil {
		t.Fatalf("IssueAccessToken() unexpected error: %v", err)
	}

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + valid, http.StatusUnauthorized},
		{"bare token", valid, http.StatusUnauthorized},
		{"empty bearer", "Bearer ", http.StatusUnauthorized},
		{"garbage token", "Bearer not.a.jwt", http.StatusUnauthorized},
		{"valid token", "Bearer " + valid, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := JWTAuth(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/users/profile", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusUnauthorized {
				if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
					t.Errorf("Content-Type = %q, want application/json", ct)
				}
				if !strings.Contains(rec.Body.String(), "error") {
					t.Errorf("body = %q, want an error field", rec.Body.String())
				}
			}
		})
	}
}

func TestJWTAuth_IdentityInContext(t *testing.T) {
	tokens := newTestTokenService(t)

	token, err := tokens.IssueAccessToken("64f000000000000000000001", "alice@example.com")
	if err != nil {
		t.Fatalf("IssueAccessToken() unexpected error: %v", err)
	}

	var gotID, gotEmail string
	handler := JWTAuth(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := UserIDFromContext(r.Context())
		if !ok {
			t.Error("UserIDFromContext() reported no identity")
		}
		gotID = id
		email, ok := EmailFromContext(r.Context())
		if !ok {
			t.Error("EmailFromContext() reported no email")
		}
		gotEmail = email
	}))

	req := httptest.NewRequest(http.MethodGet, "/users/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if gotID != "64f000000000000000000001" {
		t.Errorf("user ID = %q, want %q", gotID, "64f000000000000000000001")
	}
	if gotEmail != "alice@example.com" {
		t.Errorf("email = %q, want %q", gotEmail, "alice@example.com")
	}
}

func TestIdentityFromEmptyContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, ok := UserIDFromContext(req.Context()); ok {
		t.Error("UserIDFromContext() found an identity on a bare context")
	}
	if _, ok := EmailFromContext(req.Context()); ok {
		t.Error("EmailFromContext() found an email on a bare context")
	}
}
