package ports

import (
	"context"
	"time"

	"github.com/deepmetric/institute-portal/internal/core/domain"
)

// CourseLookup resolves catalog entries by id.
type CourseLookup interface {
	FindCourse(ctx context.Context, id string) (*domain.Course, error)
}

// EnrollmentService owns every user/course relationship transition.
// Operations on the active session return domain.ErrAuthenticationRequired
// when nobody is logged in.
type EnrollmentService interface {
	Authenticate(ctx context.Context, name, email string, isAdmin bool) (*domain.User, error)
	Logout(ctx context.Context) error
	ActiveUser(ctx context.Context) (*domain.User, error)

	RegisterCourse(ctx context.Context, courseID string) (*domain.User, error)
	SetProgress(ctx context.Context, courseID string, percent int) (*domain.User, error)
	RequestCompletion(ctx context.Context, courseID, evidence string) (*domain.User, error)

	// Admin operations; the caller enforces the role check.
	ApproveCompletion(ctx context.Context, targetUserID, courseID string) error
	RejectCompletion(ctx context.Context, targetUserID, courseID string) error
	PendingCompletions(ctx context.Context) ([]domain.PendingRequest, error)
}

// TokenIssuer mints the bearer token bound to an authenticated session.
type TokenIssuer interface {
	Issue(u *domain.User) (token string, expiresAt time.Time, err error)
}
