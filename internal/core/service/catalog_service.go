package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/deepmetric/institute-portal/internal/core/domain"
	"github.com/deepmetric/institute-portal/internal/core/ports"
	"github.com/deepmetric/institute-portal/internal/pkg/metrics"
	"github.com/deepmetric/institute-portal/internal/pkg/richtext"
)

type catalogService struct {
	mu      sync.Mutex
	courses ports.CatalogRepository
	reviews ports.ReviewRepository
	dedup   ports.IdempotencyStore
	out     announcer
	newID   func() string
	now     func() time.Time
	log     zerolog.Logger
}

// NewCatalogService returns a CatalogService implementation. dedup may be nil,
// in which case idempotency keys are ignored.
func NewCatalogService(
	courses ports.CatalogRepository,
	reviews ports.ReviewRepository,
	dedup ports.IdempotencyStore,
	notifier ports.Notifier,
	log zerolog.Logger,
) ports.CatalogService {
	return &catalogService{
		courses: courses,
		reviews: reviews,
		dedup:   dedup,
		out:     newAnnouncer(notifier),
		newID:   uuid.NewString,
		now:     time.Now,
		log:     log,
	}
}

func (s *catalogService) FindCourse(ctx context.Context, id string) (*domain.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	courses, err := s.loadCourses(ctx)
	if err != nil {
		return nil, fmt.Errorf("find course: %w", err)
	}
	c, ok := domain.FindCourse(courses, id)
	if !ok {
		return nil, fmt.Errorf("find course %s: %w", id, domain.ErrCourseNotFound)
	}
	return &c, nil
}

func (s *catalogService) ListCourses(ctx context.Context, viewerID string) ([]ports.CourseSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	courses, err := s.loadCourses(ctx)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	reviews, err := s.reviews.LoadReviews(ctx)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}

	out := make([]ports.CourseSummary, 0, len(courses))
	for _, c := range courses {
		out = append(out, ports.CourseSummary{
			Course:   c,
			Stats:    domain.ComputeReviewStats(reviews, c.ID),
			HasRated: viewerID != "" && domain.HasUserRated(reviews, viewerID, c.ID),
		})
	}
	return out, nil
}

func (s *catalogService) CreateCourse(ctx context.Context, c domain.Course) (*domain.Course, error) {
	if c.ID == "" {
		c.ID = s.newID()
	}
	c = cleanCourse(c)
	if err := c.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	courses, err := s.loadCourses(ctx)
	if err != nil {
		return nil, fmt.Errorf("create course: %w", err)
	}
	if _, exists := domain.FindCourse(courses, c.ID); exists {
		return nil, fmt.Errorf("create course %s: %w", c.ID, domain.ErrCourseExists)
	}
	if err := s.courses.SaveCourses(ctx, append(courses, c)); err != nil {
		return nil, fmt.Errorf("create course: %w", err)
	}

	s.log.Info().Str("course_id", c.ID).Msg("course created")
	s.out.announce(toast(domain.AudienceAdmins, domain.CategorySuccess, "New course created successfully"))
	return &c, nil
}

// UpdateCourse replaces the course with the same id. It returns nil without
// error when no such course exists.
func (s *catalogService) UpdateCourse(ctx context.Context, c domain.Course) (*domain.Course, error) {
	c = cleanCourse(c)
	if err := c.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	courses, err := s.loadCourses(ctx)
	if err != nil {
		return nil, fmt.Errorf("update course: %w", err)
	}
	idx := -1
	for i := range courses {
		if courses[i].ID == c.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.log.Debug().Str("course_id", c.ID).Msg("update skipped, unknown course")
		return nil, nil
	}

	courses[idx] = c
	if err := s.courses.SaveCourses(ctx, courses); err != nil {
		return nil, fmt.Errorf("update course: %w", err)
	}

	s.log.Info().Str("course_id", c.ID).Msg("course updated")
	s.out.announce(toast(domain.AudienceAdmins, domain.CategorySuccess, "Course updated successfully"))
	return &c, nil
}

// DeleteCourse removes every course with id. Enrollment records referring to
// it are left as they are.
func (s *catalogService) DeleteCourse(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	courses, err := s.loadCourses(ctx)
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	kept := make([]domain.Course, 0, len(courses))
	for _, c := range courses {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	if len(kept) == len(courses) {
		return nil
	}
	if err := s.courses.SaveCourses(ctx, kept); err != nil {
		return fmt.Errorf("delete course: %w", err)
	}

	s.log.Info().Str("course_id", id).Msg("course deleted")
	s.out.announce(toast(domain.AudienceAdmins, domain.CategorySuccess, "Course deleted successfully"))
	return nil
}

func (s *catalogService) SubmitReview(ctx context.Context, in ports.SubmitReviewInput) (*domain.Review, error) {
	if in.Rating < domain.MinRating || in.Rating > domain.MaxRating {
		return nil, domain.ErrInvalidRating
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	courses, err := s.loadCourses(ctx)
	if err != nil {
		return nil, fmt.Errorf("submit review: %w", err)
	}
	if _, ok := domain.FindCourse(courses, in.CourseID); !ok {
		return nil, fmt.Errorf("submit review: %w", domain.ErrCourseNotFound)
	}

	reviews, err := s.reviews.LoadReviews(ctx)
	if err != nil {
		return nil, fmt.Errorf("submit review: %w", err)
	}

	id := s.newID()
	if in.IdempotencyKey != "" && s.dedup != nil {
		key := strings.Join([]string{in.UserID, in.CourseID, in.IdempotencyKey}, ":")
		reserved, fresh, err := s.dedup.Reserve(ctx, key, id)
		switch {
		case err != nil:
			s.log.Warn().Err(err).Str("key", key).Msg("dedup reserve failed, processing anyway")
		case !fresh:
			metrics.ReviewsDedupTotal.WithLabelValues("hit").Inc()
			for _, r := range reviews {
				if r.ID == reserved {
					s.log.Debug().Str("key", key).Msg("duplicate review replayed")
					return &r, nil
				}
			}
			s.log.Warn().Str("key", key).Msg("reserved review missing, storing again")
			id = reserved
		default:
			metrics.ReviewsDedupTotal.WithLabelValues("miss").Inc()
		}
	}

	r := domain.Review{
		ID:        id,
		CourseID:  in.CourseID,
		UserID:    in.UserID,
		UserName:  in.UserName,
		Rating:    in.Rating,
		Comment:   in.Comment,
		CreatedAt: s.now().UTC(),
	}
	if err := s.reviews.SaveReviews(ctx, append(reviews, r)); err != nil {
		return nil, fmt.Errorf("submit review: %w", err)
	}

	s.log.Info().Str("course_id", r.CourseID).Str("user_id", r.UserID).Int("rating", r.Rating).Msg("review submitted")
	s.out.announce(toast(in.UserID, domain.CategorySuccess, "Review submitted successfully!"))
	return &r, nil
}

func (s *catalogService) CourseReviews(ctx context.Context, courseID string) ([]domain.Review, domain.ReviewStats, error) {
	reviews, err := s.reviews.LoadReviews(ctx)
	if err != nil {
		return nil, domain.ReviewStats{}, fmt.Errorf("course reviews: %w", err)
	}
	out := []domain.Review{}
	for _, r := range reviews {
		if r.CourseID == courseID {
			out = append(out, r)
		}
	}
	return out, domain.ComputeReviewStats(reviews, courseID), nil
}

func (s *catalogService) ReviewStats(ctx context.Context, courseID string) (domain.ReviewStats, error) {
	reviews, err := s.reviews.LoadReviews(ctx)
	if err != nil {
		return domain.ReviewStats{}, fmt.Errorf("review stats: %w", err)
	}
	return domain.ComputeReviewStats(reviews, courseID), nil
}

func (s *catalogService) HasUserRated(ctx context.Context, userID, courseID string) (bool, error) {
	reviews, err := s.reviews.LoadReviews(ctx)
	if err != nil {
		return false, fmt.Errorf("has user rated: %w", err)
	}
	return domain.HasUserRated(reviews, userID, courseID), nil
}

// loadCourses returns the stored catalog, seeding it on first use.
// Callers hold s.mu.
func (s *catalogService) loadCourses(ctx context.Context) ([]domain.Course, error) {
	courses, ok, err := s.courses.LoadCourses(ctx)
	if err != nil {
		return nil, err
	}
	if ok {
		return courses, nil
	}
	seed := SeedCatalog()
	if err := s.courses.SaveCourses(ctx, seed); err != nil {
		return nil, fmt.Errorf("seed catalog: %w", err)
	}
	s.log.Info().Int("courses", len(seed)).Msg("catalog seeded")
	return seed, nil
}

func cleanCourse(c domain.Course) domain.Course {
	c.Title = strings.TrimSpace(c.Title)
	c.Description = richtext.Sanitize(c.Description)
	if c.Tags == nil {
		c.Tags = []string{}
	}
	return c
}
