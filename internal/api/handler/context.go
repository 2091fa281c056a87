package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deepmetric/institute-portal/internal/core/domain"
)

// principal is the caller identity injected by the Auth and ActiveSession
// middleware.
type principal struct {
	UserID string
	Name   string
	Role   domain.Role
}

// ctxPrincipal extracts the claims injected by the middleware and fails fast
// when they are absent: a handler reached without them is misrouted.
func ctxPrincipal(c echo.Context) (principal, error) {
	userID, _ := c.Get("user_id").(string)
	if userID == "" {
		return principal{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	name, _ := c.Get("name").(string)
	role, _ := c.Get("role").(string)
	return principal{UserID: userID, Name: name, Role: domain.Role(role)}, nil
}
