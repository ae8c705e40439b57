package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fitsync/coaching-api/internal/api/middleware"
	"github.com/fitsync/coaching-api/internal/core/domain"
)

// currentUser extracts the identity resolved by the Auth middleware. Its
// presence proves the guard ran; a handler reached without it is a wiring
// error and the request is refused rather than served anonymously.
func currentUser(c echo.Context) (*domain.User, error) {
	user, ok := c.Get(middleware.IdentityKey).(*domain.User)
	if !ok || user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return user, nil
}
