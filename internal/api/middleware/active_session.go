package middleware

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/deepmetric/institute-portal/internal/core/domain"
)

// SessionSource resolves the user behind the current session.
type SessionSource interface {
	ActiveUser(ctx context.Context) (*domain.User, error)
}

// ActiveSession rejects tokens whose subject is no longer the active session
// user. It must run after Auth. The directory record is authoritative, so
// name and role are refreshed from it.
func ActiveSession(sessions SessionSource) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sub, _ := c.Get("user_id").(string)

			u, err := sessions.ActiveUser(c.Request().Context())
			if err != nil {
				return err
			}
			if u.ID != sub {
				return domain.ErrSessionSuperseded
			}

			c.Set("name", u.Name)
			c.Set("role", string(u.Role))

			return next(c)
		}
	}
}
