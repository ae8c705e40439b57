package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/fitsync/coaching-api/internal/api/metrics"
	"github.com/fitsync/coaching-api/internal/core/domain"
	"github.com/fitsync/coaching-api/internal/core/ports"
)

// IdentityKey is the echo context key under which Auth stores the resolved
// *domain.User.
const IdentityKey = "identity"

// Auth is the access guard: it extracts the bearer token, validates it with
// the codec, and re-resolves the subject from the identity store so every
// guarded request acts on the current account state, not on claims frozen at
// issuance. Any failure is a 401; there is no fall-through to anonymous.
func Auth(codec ports.TokenCodec, repo ports.IdentityRepository, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractToken(c)
			if token == "" {
				metrics.GuardDenialsTotal.WithLabelValues("missing_token").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}

			claims, err := codec.Decode(token)
			if err != nil {
				reason := "malformed"
				if errors.Is(err, domain.ErrTokenExpired) {
					reason = "expired"
				}
				metrics.TokenRejectionsTotal.WithLabelValues(reason).Inc()
				metrics.GuardDenialsTotal.WithLabelValues("invalid_token").Inc()
				// The codec error wraps the token sentinel; the central
				// handler maps it to 401.
				return err
			}

			user, err := repo.FindByID(c.Request().Context(), claims.UserID)
			if err != nil {
				if errors.Is(err, domain.ErrUserNotFound) {
					// Valid signature for an account that no longer exists.
					metrics.GuardDenialsTotal.WithLabelValues("unknown_subject").Inc()
					return echo.NewHTTPError(http.StatusUnauthorized, "unknown subject")
				}
				log.Error().Err(err).Str("user_id", claims.UserID).Msg("identity resolution failed")
				return err
			}

			c.Set(IdentityKey, user)
			return next(c)
		}
	}
}

// extractToken pulls the bearer token from the Authorization header, falling
// back to the token query parameter used by the realtime handshake, where a
// header cannot be set. Both paths go through identical validation.
func extractToken(c echo.Context) string {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return ""
		}
		return parts[1]
	}
	return c.QueryParam("token")
}
