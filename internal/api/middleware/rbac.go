package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fitsync/coaching-api/internal/api/metrics"
	"github.com/fitsync/coaching-api/internal/core/domain"
)

// RequireRole enforces role-based access control against the identity
// resolved by Auth. It compares the role currently on record, never the one
// embedded in the token, so a demotion takes effect on the next request.
// A missing identity is an authentication failure (401); a resolved identity
// with an insufficient role is an authorization failure (403). The two are
// never conflated.
func RequireRole(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := c.Get(IdentityKey).(*domain.User)
			if !ok || user == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			if _, ok := allowed[user.Role]; !ok {
				metrics.GuardDenialsTotal.WithLabelValues("forbidden").Inc()
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
