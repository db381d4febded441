package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/ryadom/ryadom/internal/service"
	"github.com/sirupsen/logrus"
)

type contextKey string

const userIDKey contextKey = "user_id"

// IdentityMiddleware attaches the verified access-token subject to the
// request context when one is present. Requests without a valid token pass
// through untouched; route handlers decide nothing based on it, it only
// enriches logs.
type IdentityMiddleware struct {
	tokenService *service.TokenService
	logger       *logrus.Logger
}

func NewIdentityMiddleware(tokenService *service.TokenService, logger *logrus.Logger) *IdentityMiddleware {
	return &IdentityMiddleware{
		tokenService: tokenService,
		logger:       logger,
	}
}

func (m *IdentityMiddleware) Attach(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := accessTokenFrom(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		subject, err := m.tokenService.VerifyAccessToken(token)
		if err != nil {
			m.logger.WithError(err).Debug("Access token verification failed")
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// accessTokenFrom prefers the access_token cookie and falls back to a
// bearer Authorization header.
func accessTokenFrom(r *http.Request) string {
	if cookie, err := r.Cookie("access_token"); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := r.Header.Get("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}

	return ""
}

func UserIDFrom(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok
}
