package crypto

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "devconnect"

// ErrInvalidToken is returned for any token that fails verification:
// malformed, expired, tampered, wrong issuer or wrong algorithm. Callers
// must not learn which check failed.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the payload carried by both access and refresh tokens.
// The subject holds the user ID.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// TokenService signs and verifies the JWTs used for authentication.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenService creates a TokenService. The secret should be at least
// 32 bytes of random data in production.
func NewTokenService(secret string, accessTTL, refreshTTL time.Duration) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("crypto: JWT secret must be at least 16 characters")
	}
	return &TokenService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}, nil
}

// IssueAccessToken signs a short-lived token for the given user.
func (s *TokenService) IssueAccessToken(userID, email string) (string, error) {
	return s.sign(userID, email, s.accessTTL)
}

// IssueRefreshToken signs a long-lived token for the given user. Only a
// hash of the result is ever persisted.
func (s *TokenService) IssueRefreshToken(userID, email string) (string, error) {
	return s.sign(userID, email, s.refreshTTL)
}

func (s *TokenService) sign(userID, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email: email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("crypto: signing token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature, expiry, issuer and algorithm of a token and
// returns its claims. Every failure collapses to ErrInvalidToken.
func (s *TokenService) Verify(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&Claims{},
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, ErrInvalidToken
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Decode extracts a token's claims without verifying its signature.
// Only call this on tokens already validated upstream (e.g. by the auth
// middleware); attacker-supplied tokens must go through Verify.
func (s *TokenService) Decode(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, claims); err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
