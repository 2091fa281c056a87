package ports

import (
	"context"

	"github.com/deepmetric/institute-portal/internal/core/domain"
)

// SubmitReviewInput carries a new review. IdempotencyKey is optional.
type SubmitReviewInput struct {
	UserID         string
	UserName       string
	CourseID       string
	Rating         int
	Comment        string
	IdempotencyKey string
}

// CourseSummary is a catalog entry with its review projection.
type CourseSummary struct {
	Course   domain.Course
	Stats    domain.ReviewStats
	HasRated bool
}

// CatalogService is the course and review store.
type CatalogService interface {
	CourseLookup

	ListCourses(ctx context.Context, viewerID string) ([]CourseSummary, error)
	CreateCourse(ctx context.Context, c domain.Course) (*domain.Course, error)
	UpdateCourse(ctx context.Context, c domain.Course) (*domain.Course, error)
	DeleteCourse(ctx context.Context, id string) error

	SubmitReview(ctx context.Context, in SubmitReviewInput) (*domain.Review, error)
	CourseReviews(ctx context.Context, courseID string) ([]domain.Review, domain.ReviewStats, error)
	ReviewStats(ctx context.Context, courseID string) (domain.ReviewStats, error)
	HasUserRated(ctx context.Context, userID, courseID string) (bool, error)
}
