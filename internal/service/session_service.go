package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ryadom/ryadom/internal/apperrors"
	"github.com/ryadom/ryadom/internal/config"
	"github.com/ryadom/ryadom/internal/models"
	"github.com/ryadom/ryadom/internal/repository"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// SessionService owns the login/refresh/logout lifecycle: credential checks,
// refresh-token persistence and revocation, access-token issuance.
type SessionService struct {
	users         UserStore
	refreshTokens RefreshTokenStore
	tokenService  *TokenService

	refreshExpiry      time.Duration
	refreshShortExpiry time.Duration

	now    func() time.Time
	logger *logrus.Logger
}

func NewSessionService(
	users UserStore,
	refreshTokens RefreshTokenStore,
	tokenService *TokenService,
	cfg *config.JWTConfig,
	logger *logrus.Logger,
) *SessionService {
	return &SessionService{
		users:              users,
		refreshTokens:      refreshTokens,
		tokenService:       tokenService,
		refreshExpiry:      cfg.RefreshExpiry,
		refreshShortExpiry: cfg.RefreshShortExpiry,
		now:                time.Now,
		logger:             logger,
	}
}

// Login authenticates by email and password and issues a fresh token pair.
// The refresh token is persisted before the pair is returned, so a stored
// row always backs any credentials handed out.
func (s *SessionService) Login(ctx context.Context, email, password string, rememberMe bool) (*models.TokenPair, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.InvalidCredentials()
		}
		return nil, apperrors.Internal(fmt.Errorf("failed to look up user: %w", err))
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.InvalidCredentials()
	}

	expiry := s.refreshShortExpiry
	if rememberMe {
		expiry = s.refreshExpiry
	}

	refreshToken := &models.RefreshToken{
		Token:     uuid.New().String(),
		UserID:    user.ID,
		CreatedAt: s.now(),
		ExpiresAt: s.now().Add(expiry),
	}

	if err := s.refreshTokens.Store(ctx, refreshToken); err != nil {
		s.logger.WithError(err).Error("Failed to store refresh token")
		return nil, apperrors.Internal(fmt.Errorf("failed to store refresh token: %w", err))
	}

	return s.buildTokenPair(user.ID, refreshToken.Token)
}

// Refresh issues a new access token for a valid refresh token. The same
// refresh token value is returned: renewals do not rotate it.
func (s *SessionService) Refresh(ctx context.Context, token string) (*models.TokenPair, error) {
	stored, err := s.refreshTokens.Get(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.InvalidToken("Invalid refresh token")
		}
		return nil, apperrors.Internal(fmt.Errorf("failed to look up refresh token: %w", err))
	}

	if stored.Revoked || !stored.ExpiresAt.After(s.now()) {
		return nil, apperrors.InvalidToken("Invalid refresh token")
	}

	if _, err := s.users.GetByID(ctx, stored.UserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.InvalidToken("Invalid refresh token")
		}
		return nil, apperrors.Internal(fmt.Errorf("failed to look up user: %w", err))
	}

	return s.buildTokenPair(stored.UserID, token)
}

// Logout revokes the refresh token. Unknown or already-revoked tokens are
// not errors: logging out twice must never fail.
func (s *SessionService) Logout(ctx context.Context, token string) error {
	if err := s.refreshTokens.Revoke(ctx, token); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		s.logger.WithError(err).Error("Failed to revoke refresh token")
		return apperrors.Internal(fmt.Errorf("failed to revoke refresh token: %w", err))
	}
	return nil
}

func (s *SessionService) buildTokenPair(userID, refreshToken string) (*models.TokenPair, error) {
	accessToken, err := s.tokenService.IssueAccessToken(userID)
	if err != nil {
		return nil, err
	}

	return &models.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    s.tokenService.AccessExpirySeconds(),
	}, nil
}
