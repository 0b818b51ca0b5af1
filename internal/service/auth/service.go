package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/jget-crm/backoffice/internal/domain/auth"
	"github.com/jget-crm/backoffice/internal/domain/user"
	"github.com/jget-crm/backoffice/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

type Service struct {
	userRepo   user.UserRepository
	jwtService jwt.Service
}

func NewService(userRepo user.UserRepository, jwtService jwt.Service) *Service {
	return &Service{userRepo: userRepo, jwtService: jwtService}
}

// Login verifies credentials and issues an access token plus a refresh
// token for the cookie. Unknown usernames and wrong passwords are not
// distinguished in the error.
func (s *Service) Login(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, string, int64, error) {
	u, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.LoginResponse{}, "", 0, auth.ErrInvalidCredentials
		}
		return auth.LoginResponse{}, "", 0, fmt.Errorf("failed to get user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		return auth.LoginResponse{}, "", 0, auth.ErrInvalidCredentials
	}

	accessToken, expiresAt, err := s.jwtService.GenerateAccessToken(u)
	if err != nil {
		return auth.LoginResponse{}, "", 0, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, refreshExpiresAt, err := s.jwtService.GenerateRefreshToken(u.ID)
	if err != nil {
		return auth.LoginResponse{}, "", 0, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	resp := auth.LoginResponse{
		AccessToken: accessToken,
		ExpiresAt:   expiresAt,
		User:        user.ToResponse(u),
	}
	return resp, refreshToken, refreshExpiresAt, nil
}

// Refresh exchanges a valid refresh token for a new access token. The
// user row is re-read so revoked accounts and role changes take effect
// at rotation time.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (auth.RefreshResponse, error) {
	if s.jwtService.IsTokenRevoked(refreshToken) {
		return auth.RefreshResponse{}, auth.ErrRefreshTokenRevoked
	}

	token, err := s.jwtService.JWTAuth().Decode(refreshToken)
	if err != nil {
		return auth.RefreshResponse{}, auth.ErrInvalidToken
	}

	claims, err := token.AsMap(ctx)
	if err != nil {
		return auth.RefreshResponse{}, auth.ErrInvalidToken
	}
	if tokenType, _ := claims["type"].(string); tokenType != "refresh" {
		return auth.RefreshResponse{}, auth.ErrInvalidToken
	}
	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return auth.RefreshResponse{}, auth.ErrInvalidToken
	}

	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.RefreshResponse{}, auth.ErrUserNotFound
		}
		return auth.RefreshResponse{}, fmt.Errorf("failed to get user: %w", err)
	}

	accessToken, expiresAt, err := s.jwtService.GenerateAccessToken(u)
	if err != nil {
		return auth.RefreshResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	return auth.RefreshResponse{AccessToken: accessToken, ExpiresAt: expiresAt}, nil
}

// Logout revokes the refresh token so it cannot be replayed.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken != "" {
		s.jwtService.RevokeToken(refreshToken)
	}
	return nil
}

// Me returns the profile of the acting user.
func (s *Service) Me(ctx context.Context, userID string) (user.UserResponse, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return user.UserResponse{}, err
	}
	return user.ToResponse(u), nil
}
