package ports

import (
	"context"

	"github.com/deepmetric/institute-portal/internal/core/domain"
)

// DirectoryRepository persists the user directory and the active session id.
type DirectoryRepository interface {
	LoadDirectory(ctx context.Context) (domain.Directory, error)
	SaveUsers(ctx context.Context, users []domain.User) error
	// SaveActiveUserID stores the session pointer; an empty id clears it.
	SaveActiveUserID(ctx context.Context, id string) error
}

// CatalogRepository persists the course catalog. ok is false when no catalog
// has been stored yet.
type CatalogRepository interface {
	LoadCourses(ctx context.Context) (courses []domain.Course, ok bool, err error)
	SaveCourses(ctx context.Context, courses []domain.Course) error
}

// ReviewRepository persists the append-only review list.
type ReviewRepository interface {
	LoadReviews(ctx context.Context) ([]domain.Review, error)
	SaveReviews(ctx context.Context, reviews []domain.Review) error
}

// IdempotencyStore remembers the value first stored under a key.
// Reserve returns the stored value and true when this call stored it.
type IdempotencyStore interface {
	Reserve(ctx context.Context, key, value string) (string, bool, error)
}
