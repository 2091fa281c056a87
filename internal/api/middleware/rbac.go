package middleware

import (
	"slices"

	"github.com/labstack/echo/v4"

	"github.com/deepmetric/institute-portal/internal/core/domain"
)

// RBAC lets the request through only when the caller's role is one of
// allowedRoles. It reads "role" from the context, which ActiveSession
// refreshes from the directory, so it must be mounted after ActiveSession.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if !slices.Contains(allowedRoles, domain.Role(role)) {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
