package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/deepmetric/institute-portal/internal/core/ports"
)

// SessionHandler handles login, logout and the current-session lookup.
type SessionHandler struct {
	enrollment  ports.EnrollmentService
	tokens      ports.TokenIssuer
	adminEmails map[string]struct{}
}

// NewSessionHandler creates a SessionHandler. Authenticating with one of
// adminEmails grants the admin role.
func NewSessionHandler(enrollment ports.EnrollmentService, tokens ports.TokenIssuer, adminEmails []string) *SessionHandler {
	admins := make(map[string]struct{}, len(adminEmails))
	for _, e := range adminEmails {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			admins[e] = struct{}{}
		}
	}
	return &SessionHandler{enrollment: enrollment, tokens: tokens, adminEmails: admins}
}

func (h *SessionHandler) isAdmin(email string) bool {
	_, ok := h.adminEmails[strings.ToLower(strings.TrimSpace(email))]
	return ok
}

// Create handles POST /v1/session.
//
// @Summary      Log in (creating the account on first use)
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      sessionRequest  true  "Name and email"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /v1/session [post]
func (h *SessionHandler) Create(c echo.Context) error {
	var req sessionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	user, err := h.enrollment.Authenticate(c.Request().Context(), req.Name, req.Email, h.isAdmin(req.Email))
	if err != nil {
		return err
	}

	token, expiresAt, err := h.tokens.Issue(user)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, sessionResponse{Token: token, ExpiresAt: &expiresAt, User: user})
}

// Get handles GET /v1/session.
//
// @Summary      Current session user
// @Tags         session
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  sessionResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/session [get]
func (h *SessionHandler) Get(c echo.Context) error {
	user, err := h.enrollment.ActiveUser(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sessionResponse{User: user})
}

// Delete handles DELETE /v1/session.
//
// @Summary      Log out
// @Tags         session
// @Security     BearerAuth
// @Success      204
// @Failure      401  {object}  errorResponse
// @Router       /v1/session [delete]
func (h *SessionHandler) Delete(c echo.Context) error {
	if err := h.enrollment.Logout(c.Request().Context()); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
