package service

import (
	"context"
	"sync"

	"github.com/deepmetric/institute-portal/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubDirectoryRepo struct {
	users    []domain.User
	activeID string
	saveErr  error
	saves    int
}

func (r *stubDirectoryRepo) LoadDirectory(_ context.Context) (domain.Directory, error) {
	users := make([]domain.User, len(r.users))
	for i, u := range r.users {
		users[i] = u.Clone()
	}
	return domain.Directory{Users: users, ActiveID: r.activeID}, nil
}

func (r *stubDirectoryRepo) SaveUsers(_ context.Context, users []domain.User) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saves++
	r.users = make([]domain.User, len(users))
	for i, u := range users {
		r.users[i] = u.Clone()
	}
	return nil
}

func (r *stubDirectoryRepo) SaveActiveUserID(_ context.Context, id string) error {
	r.activeID = id
	return nil
}

type stubCatalogRepo struct {
	courses []domain.Course
	stored  bool
}

func (r *stubCatalogRepo) LoadCourses(_ context.Context) ([]domain.Course, bool, error) {
	return append([]domain.Course(nil), r.courses...), r.stored, nil
}

func (r *stubCatalogRepo) SaveCourses(_ context.Context, courses []domain.Course) error {
	r.courses = append([]domain.Course(nil), courses...)
	r.stored = true
	return nil
}

type stubReviewRepo struct {
	reviews []domain.Review
}

func (r *stubReviewRepo) LoadReviews(_ context.Context) ([]domain.Review, error) {
	return append([]domain.Review{}, r.reviews...), nil
}

func (r *stubReviewRepo) SaveReviews(_ context.Context, reviews []domain.Review) error {
	r.reviews = append([]domain.Review(nil), reviews...)
	return nil
}

type stubCourseLookup map[string]domain.Course

func (l stubCourseLookup) FindCourse(_ context.Context, id string) (*domain.Course, error) {
	c, ok := l[id]
	if !ok {
		return nil, domain.ErrCourseNotFound
	}
	return &c, nil
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []domain.Notification
}

func (n *recordingNotifier) Notify(x domain.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, x)
}

func (n *recordingNotifier) take() []domain.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := n.sent
	n.sent = nil
	return out
}

func categories(ns []domain.Notification) []domain.Category {
	out := make([]domain.Category, len(ns))
	for i, n := range ns {
		out[i] = n.Category
	}
	return out
}
