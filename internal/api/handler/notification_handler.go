package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deepmetric/institute-portal/internal/core/domain"
	"github.com/deepmetric/institute-portal/internal/core/ports"
)

// NotificationHandler exposes the live notification feed.
type NotificationHandler struct {
	feed ports.NotificationFeed
}

func NewNotificationHandler(feed ports.NotificationFeed) *NotificationHandler {
	return &NotificationHandler{feed: feed}
}

// List handles GET /v1/notifications.
//
// @Summary      Live notifications for the caller
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  notificationListResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/notifications [get]
func (h *NotificationHandler) List(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	items := h.feed.List(p.UserID, p.Role)
	if items == nil {
		items = []domain.Notification{}
	}
	return c.JSON(http.StatusOK, notificationListResponse{Notifications: items})
}

// Dismiss handles DELETE /v1/notifications/:id.
//
// @Summary      Dismiss a notification
// @Tags         notifications
// @Security     BearerAuth
// @Param        id   path  string  true  "Notification id"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /v1/notifications/{id} [delete]
func (h *NotificationHandler) Dismiss(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	if !h.feed.Dismiss(p.UserID, p.Role, c.Param("id")) {
		return echo.NewHTTPError(http.StatusNotFound, "notification not found")
	}
	return c.NoContent(http.StatusNoContent)
}
