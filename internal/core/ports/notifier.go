package ports

import "github.com/deepmetric/institute-portal/internal/core/domain"

// Notifier accepts fire-and-forget notifications. Implementations must not
// block the caller on delivery.
type Notifier interface {
	Notify(n domain.Notification)
}

// NotificationFeed exposes the live, auto-expiring notifications a user can see.
type NotificationFeed interface {
	List(userID string, role domain.Role) []domain.Notification
	Dismiss(userID string, role domain.Role, id string) bool
}
