package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/devconnect/devconnect-go/internal/apperror"
	"github.com/devconnect/devconnect-go/internal/crypto"
	"github.com/devconnect/devconnect-go/internal/model"
	"github.com/devconnect/devconnect-go/internal/repository"
)

// invalidRefreshMessage is the single message returned for every refresh
// failure. Signature errors, expiry, unknown users and hash mismatches are
// deliberately indistinguishable to the caller.
const invalidRefreshMessage = "Invalid refresh token"

// AuthService orchestrates login and token refresh.
type AuthService struct {
	users     repository.UserRepository
	tokens    *crypto.TokenService
	passwords *crypto.PasswordHasher
	logger    *slog.Logger
}

// NewAuthService creates an AuthService.
func NewAuthService(users repository.UserRepository, tokens *crypto.TokenService, passwords *crypto.PasswordHasher, logger *slog.Logger) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// Login verifies credentials and issues an access/refresh token pair. The
// refresh token's hash is persisted on the user, invalidating any
// previously issued refresh token.
//
// A missing user and a wrong password surface as distinct kinds (NotFound
// vs Unauthorized); this is intentional and differs from Refresh.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.logger.Warn("login failed: user not found", "email", req.Email)
			return nil, apperror.NotFound("User not found")
		}
		s.logger.Error("login failed", "email", req.Email, "error", err)
		return nil, apperror.Internal("failed to log in")
	}

	if !s.passwords.Verify(user.Password, req.Password) {
		s.logger.Warn("login failed: invalid credentials", "email", req.Email)
		return nil, apperror.Unauthorized("Invalid credentials")
	}

	userID := user.ID.Hex()
	accessToken, err := s.tokens.IssueAccessToken(userID, user.Email)
	if err != nil {
		s.logger.Error("login failed: issuing access token", "email", req.Email, "error", err)
		return nil, apperror.Internal("failed to log in")
	}
	refreshToken, err := s.tokens.IssueRefreshToken(userID, user.Email)
	if err != nil {
		s.logger.Error("login failed: issuing refresh token", "email", req.Email, "error", err)
		return nil, apperror.Internal("failed to log in")
	}

	tokenHash, err := s.passwords.HashToken(refreshToken)
	if err != nil {
		s.logger.Error("login failed: hashing refresh token", "email", req.Email, "error", err)
		return nil, apperror.Internal("failed to log in")
	}
	if err := s.users.SetRefreshToken(ctx, userID, tokenHash); err != nil {
		s.logger.Error("login failed: persisting refresh token", "email", req.Email, "error", err)
		return nil, apperror.Internal("failed to log in")
	}

	s.logger.Info("user logged in", "email", user.Email)
	return &model.LoginResponse{
		Message:      "User logged in successfully",
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Refresh exchanges a valid refresh token for a new access token. The
// stored refresh token is not rotated; it remains valid until the next
// login.
//
// Every failure path collapses to one Unauthorized error with one message,
// so callers cannot probe which check rejected the token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*model.RefreshResponse, error) {
	claims, err := s.tokens.Verify(refreshToken)
	if err != nil {
		s.logger.Warn("refresh failed: token verification")
		return nil, apperror.Unauthorized(invalidRefreshMessage)
	}

	user, err := s.users.GetByID(ctx, claims.Subject)
	if err != nil {
		s.logger.Warn("refresh failed: user lookup", "sub", claims.Subject)
		return nil, apperror.Unauthorized(invalidRefreshMessage)
	}

	if !s.passwords.VerifyToken(user.RefreshToken, refreshToken) {
		s.logger.Warn("refresh failed: stored hash mismatch", "sub", claims.Subject)
		return nil, apperror.Unauthorized(invalidRefreshMessage)
	}

	accessToken, err := s.tokens.IssueAccessToken(user.ID.Hex(), user.Email)
	if err != nil {
		s.logger.Warn("refresh failed: issuing access token")
		return nil, apperror.Unauthorized(invalidRefreshMessage)
	}

	s.logger.Info("token refreshed", "email", user.Email)
	return &model.RefreshResponse{AccessToken: accessToken}, nil
}
