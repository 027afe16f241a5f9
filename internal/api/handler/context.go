package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dbu-council/council-system/internal/api/middleware"
	"github.com/dbu-council/council-system/internal/core/domain"
)

// ctxSubject extracts the authenticated account injected by the Auth
// middleware. Presence proves the middleware ran; its absence on a protected
// route is a wiring fault surfaced as 401 rather than a panic downstream.
func ctxSubject(c echo.Context) (*domain.Account, error) {
	subject := middleware.Subject(c)
	if subject == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return subject, nil
}
