package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/deepmetric/institute-portal/internal/core/domain"
	"github.com/deepmetric/institute-portal/internal/core/ports"
)

// newTestContext builds an echo context with the validator installed and,
// when userID is non-empty, the claims the middleware would inject.
func newTestContext(method, target string, body io.Reader, userID string, role domain.Role) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != "" {
		c.Set("user_id", userID)
		c.Set("name", "Ama")
		c.Set("role", string(role))
	}
	return c, rec
}

// ---- enrollment -------------------------------------------------------------

type stubEnrollment struct {
	authenticateFn func(name, email string, isAdmin bool) (*domain.User, error)
	activeFn       func() (*domain.User, error)
	registerFn     func(courseID string) (*domain.User, error)
	progressFn     func(courseID string, percent int) (*domain.User, error)
	requestFn      func(courseID, evidence string) (*domain.User, error)
	approveFn      func(userID, courseID string) error
	rejectFn       func(userID, courseID string) error
	pendingFn      func() ([]domain.PendingRequest, error)
	logouts        int
}

func (s *stubEnrollment) Authenticate(_ context.Context, name, email string, isAdmin bool) (*domain.User, error) {
	return s.authenticateFn(name, email, isAdmin)
}

func (s *stubEnrollment) Logout(context.Context) error {
	s.logouts++
	return nil
}

func (s *stubEnrollment) ActiveUser(context.Context) (*domain.User, error) {
	return s.activeFn()
}

func (s *stubEnrollment) RegisterCourse(_ context.Context, courseID string) (*domain.User, error) {
	return s.registerFn(courseID)
}

func (s *stubEnrollment) SetProgress(_ context.Context, courseID string, percent int) (*domain.User, error) {
	return s.progressFn(courseID, percent)
}

func (s *stubEnrollment) RequestCompletion(_ context.Context, courseID, evidence string) (*domain.User, error) {
	return s.requestFn(courseID, evidence)
}

func (s *stubEnrollment) ApproveCompletion(_ context.Context, userID, courseID string) error {
	return s.approveFn(userID, courseID)
}

func (s *stubEnrollment) RejectCompletion(_ context.Context, userID, courseID string) error {
	return s.rejectFn(userID, courseID)
}

func (s *stubEnrollment) PendingCompletions(context.Context) ([]domain.PendingRequest, error) {
	return s.pendingFn()
}

type stubTokens struct{}

func (stubTokens) Issue(u *domain.User) (string, time.Time, error) {
	return "token-" + u.ID, time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC), nil
}

// ---- catalog ----------------------------------------------------------------

type stubCatalog struct {
	courses map[string]domain.Course
	stats   domain.ReviewStats
	rated   bool
	created *domain.Course
	updated *domain.Course
	deleted []string
	review  *ports.SubmitReviewInput
	err     error
}

func (s *stubCatalog) FindCourse(_ context.Context, id string) (*domain.Course, error) {
	c, ok := s.courses[id]
	if !ok {
		return nil, domain.ErrCourseNotFound
	}
	return &c, nil
}

func (s *stubCatalog) ListCourses(_ context.Context, _ string) ([]ports.CourseSummary, error) {
	out := []ports.CourseSummary{}
	for _, c := range s.courses {
		out = append(out, ports.CourseSummary{Course: c, Stats: s.stats, HasRated: s.rated})
	}
	return out, nil
}

func (s *stubCatalog) CreateCourse(_ context.Context, c domain.Course) (*domain.Course, error) {
	if s.err != nil {
		return nil, s.err
	}
	if c.ID == "" {
		c.ID = "generated"
	}
	s.created = &c
	return &c, nil
}

func (s *stubCatalog) UpdateCourse(_ context.Context, c domain.Course) (*domain.Course, error) {
	if _, ok := s.courses[c.ID]; !ok {
		return nil, nil
	}
	s.updated = &c
	return &c, nil
}

func (s *stubCatalog) DeleteCourse(_ context.Context, id string) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubCatalog) SubmitReview(_ context.Context, in ports.SubmitReviewInput) (*domain.Review, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.review = &in
	return &domain.Review{ID: "r1", CourseID: in.CourseID, UserID: in.UserID, UserName: in.UserName, Rating: in.Rating, Comment: in.Comment}, nil
}

func (s *stubCatalog) CourseReviews(_ context.Context, _ string) ([]domain.Review, domain.ReviewStats, error) {
	return nil, s.stats, nil
}

func (s *stubCatalog) ReviewStats(_ context.Context, _ string) (domain.ReviewStats, error) {
	return s.stats, nil
}

func (s *stubCatalog) HasUserRated(_ context.Context, _, _ string) (bool, error) {
	return s.rated, nil
}

// ---- advisor ----------------------------------------------------------------

type stubAdvisor struct {
	chatFn     func(conversationID, message string, onDelta func(string)) (*ports.ChatReply, error)
	transcript []domain.ChatMessage
	tags       []string
	requester  string
}

func (s *stubAdvisor) Chat(_ context.Context, conversationID, message string, onDelta func(string)) (*ports.ChatReply, error) {
	return s.chatFn(conversationID, message, onDelta)
}

func (s *stubAdvisor) Transcript(string) []domain.ChatMessage { return s.transcript }

func (s *stubAdvisor) SuggestTags(_ context.Context, requesterID, _, _ string) ([]string, error) {
	s.requester = requesterID
	return s.tags, nil
}

// ---- certificates -----------------------------------------------------------

type stubCertificates struct {
	doc *ports.Document
	err error
}

func (s stubCertificates) Issue(context.Context, string) (*ports.Document, error) {
	return s.doc, s.err
}

// ---- notifications ----------------------------------------------------------

type stubFeed struct {
	items     []domain.Notification
	dismissed string
}

func (s *stubFeed) List(userID string, role domain.Role) []domain.Notification {
	out := []domain.Notification{}
	for _, n := range s.items {
		if n.VisibleTo(userID, role) {
			out = append(out, n)
		}
	}
	return out
}

func (s *stubFeed) Dismiss(userID string, role domain.Role, id string) bool {
	for _, n := range s.items {
		if n.ID == id && n.VisibleTo(userID, role) {
			s.dismissed = id
			return true
		}
	}
	return false
}
