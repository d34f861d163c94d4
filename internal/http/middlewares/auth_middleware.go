package middlewares

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/geocoder89/taskhub/internal/actorctx"
	"github.com/geocoder89/taskhub/internal/auth"
	"github.com/geocoder89/taskhub/internal/domain/user"
	"github.com/geocoder89/taskhub/internal/observability"
	"github.com/gin-gonic/gin"
)

// Keep this small interface so tests can fake it easily.
type Authenticator interface {
	Authenticate(ctx context.Context, raw string) (*user.User, error)
}

type AuthMiddleware struct {
	strategy Authenticator
	prom     *observability.Prom
}

func NewAuthMiddleware(strategy Authenticator, prom *observability.Prom) *AuthMiddleware {
	return &AuthMiddleware{strategy: strategy, prom: prom}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			m.prom.IncAuthFailure("missing_token")
			abortWithError(c, http.StatusUnauthorized, "unauthorized", "Unauthorized")
			return
		}

		raw := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
		if raw == "" {
			m.prom.IncAuthFailure("missing_token")
			abortWithError(c, http.StatusUnauthorized, "unauthorized", "Unauthorized")
			return
		}

		u, err := m.strategy.Authenticate(c.Request.Context(), raw)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidToken) {
				m.prom.IncAuthFailure("invalid_token")
				abortWithError(c, http.StatusUnauthorized, "unauthorized", "Unauthorized")
				return
			}

			slog.Default().ErrorContext(c.Request.Context(), "authenticate failed", "err", err)
			abortWithError(c, http.StatusInternalServerError, "internal_error", "Internal server error")
			return
		}

		// a valid token for a user that no longer exists
		if u == nil {
			m.prom.IncAuthFailure("unknown_user")
			abortWithError(c, http.StatusUnauthorized, "unauthorized", "Unauthorized")
			return
		}

		c.Request = c.Request.WithContext(actorctx.WithUser(c.Request.Context(), u))

		c.Next()
	}
}
