package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/ryadom/ryadom/internal/apperrors"
	"github.com/ryadom/ryadom/internal/config"
	"github.com/sirupsen/logrus"
)

// TokenService creates and verifies signed access tokens. It is stateless:
// verification needs only the signature and expiry, never a store lookup.
type TokenService struct {
	secretKey    []byte
	method       jwt.SigningMethod
	accessExpiry time.Duration
	logger       *logrus.Logger
}

func NewTokenService(cfg *config.JWTConfig, logger *logrus.Logger) (*TokenService, error) {
	secretKey := []byte(cfg.SecretKey)
	if len(secretKey) < 32 {
		return nil, fmt.Errorf("secret key must be at least 32 bytes")
	}

	method := jwt.GetSigningMethod(cfg.Algorithm)
	if method == nil {
		return nil, fmt.Errorf("unknown signing algorithm %q", cfg.Algorithm)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("signing algorithm %q is not an HMAC method", cfg.Algorithm)
	}

	return &TokenService{
		secretKey:    secretKey,
		method:       method,
		accessExpiry: cfg.AccessExpiry,
		logger:       logger,
	}, nil
}

func (s *TokenService) IssueAccessToken(subject string) (string, error) {
	now := time.Now()

	claims := &jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.accessExpiry)),
	}

	token := jwt.NewWithClaims(s.method, claims)
	signed, err := token.SignedString(s.secretKey)
	if err != nil {
		s.logger.WithError(err).Error("Failed to sign access token")
		return "", apperrors.Internal(fmt.Errorf("failed to sign access token: %w", err))
	}

	return signed, nil
}

// VerifyAccessToken returns the token subject. Signature and expiry failures
// are unauthorized; anything unexpected stays internal so no decoder detail
// leaks to the client.
func (s *TokenService) VerifyAccessToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	})

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired),
			errors.Is(err, jwt.ErrTokenSignatureInvalid),
			errors.Is(err, jwt.ErrTokenNotValidYet),
			errors.Is(err, jwt.ErrTokenMalformed):
			return "", apperrors.InvalidToken("Invalid or expired token")
		default:
			return "", apperrors.Internal(fmt.Errorf("failed to parse token: %w", err))
		}
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return "", apperrors.InvalidToken("Invalid or expired token")
	}

	return claims.Subject, nil
}

// AccessExpirySeconds is the expires_in value reported alongside issued
// token pairs.
func (s *TokenService) AccessExpirySeconds() int64 {
	return int64(s.accessExpiry.Seconds())
}
