package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/deepmetric/institute-portal/internal/core/domain"
	"github.com/deepmetric/institute-portal/internal/core/ports"
)

type enrollmentService struct {
	// mu serialises read-modify-write cycles on the directory.
	mu      sync.Mutex
	repo    ports.DirectoryRepository
	courses ports.CourseLookup
	out     announcer
	newID   func() string
	log     zerolog.Logger
}

// NewEnrollmentService returns an EnrollmentService implementation.
func NewEnrollmentService(
	repo ports.DirectoryRepository,
	courses ports.CourseLookup,
	notifier ports.Notifier,
	log zerolog.Logger,
) ports.EnrollmentService {
	return &enrollmentService{
		repo:    repo,
		courses: courses,
		out:     newAnnouncer(notifier),
		newID:   uuid.NewString,
		log:     log,
	}
}

func (s *enrollmentService) Authenticate(ctx context.Context, name, email string, isAdmin bool) (*domain.User, error) {
	name, email = strings.TrimSpace(name), strings.TrimSpace(email)

	s.mu.Lock()
	defer s.mu.Unlock()

	dir, err := s.repo.LoadDirectory(ctx)
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	var existing *domain.User
	if i := dir.FindByEmail(email); i >= 0 {
		existing = &dir.Users[i]
	}
	tr := domain.Authenticate(existing, s.newID(), name, email, isAdmin)

	if err := s.commit(ctx, &dir, tr); err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	if err := s.repo.SaveActiveUserID(ctx, tr.User.ID); err != nil {
		return nil, fmt.Errorf("authenticate: save session: %w", err)
	}

	s.log.Info().Str("user_id", tr.User.ID).Str("role", string(tr.User.Role)).Msg("user authenticated")
	s.emit(ctx, tr)
	return &tr.User, nil
}

func (s *enrollmentService) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir, err := s.repo.LoadDirectory(ctx)
	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	if err := s.repo.SaveActiveUserID(ctx, ""); err != nil {
		return fmt.Errorf("logout: %w", err)
	}

	if u, ok := dir.Active(); ok {
		s.log.Info().Str("user_id", u.ID).Msg("user logged out")
		s.emit(ctx, domain.Transition{
			User:   u,
			Events: []domain.Event{{Kind: domain.EventLoggedOut, UserID: u.ID}},
		})
	}
	return nil
}

func (s *enrollmentService) ActiveUser(ctx context.Context) (*domain.User, error) {
	dir, err := s.repo.LoadDirectory(ctx)
	if err != nil {
		return nil, fmt.Errorf("active user: %w", err)
	}
	u, ok := dir.Active()
	if !ok {
		return nil, domain.ErrAuthenticationRequired
	}
	return &u, nil
}

func (s *enrollmentService) RegisterCourse(ctx context.Context, courseID string) (*domain.User, error) {
	return s.mutateActive(ctx, "register course", func(u domain.User) (domain.Transition, error) {
		return domain.Register(u, courseID), nil
	})
}

func (s *enrollmentService) SetProgress(ctx context.Context, courseID string, percent int) (*domain.User, error) {
	return s.mutateActive(ctx, "set progress", func(u domain.User) (domain.Transition, error) {
		return domain.SetProgress(u, courseID, percent), nil
	})
}

func (s *enrollmentService) RequestCompletion(ctx context.Context, courseID, evidence string) (*domain.User, error) {
	return s.mutateActive(ctx, "request completion", func(u domain.User) (domain.Transition, error) {
		return domain.RequestCompletion(u, courseID, strings.TrimSpace(evidence))
	})
}

// ApproveCompletion is a silent no-op when either the user or the course is
// unknown.
func (s *enrollmentService) ApproveCompletion(ctx context.Context, targetUserID, courseID string) error {
	course, err := s.lookupCourse(ctx, courseID)
	if err != nil {
		return fmt.Errorf("approve completion: %w", err)
	}
	if course == nil {
		s.log.Debug().Str("course_id", courseID).Msg("approve skipped, unknown course")
		return nil
	}
	return s.mutateTarget(ctx, "approve completion", targetUserID, func(u domain.User) domain.Transition {
		return domain.Approve(u, courseID)
	})
}

// RejectCompletion is a silent no-op when the user is unknown. An unknown
// course is still removed from the pending set.
func (s *enrollmentService) RejectCompletion(ctx context.Context, targetUserID, courseID string) error {
	return s.mutateTarget(ctx, "reject completion", targetUserID, func(u domain.User) domain.Transition {
		return domain.Reject(u, courseID)
	})
}

func (s *enrollmentService) PendingCompletions(ctx context.Context) ([]domain.PendingRequest, error) {
	dir, err := s.repo.LoadDirectory(ctx)
	if err != nil {
		return nil, fmt.Errorf("pending completions: %w", err)
	}
	return dir.PendingRequests(), nil
}

// mutateActive applies fn to the session user and persists the result.
func (s *enrollmentService) mutateActive(
	ctx context.Context,
	op string,
	fn func(domain.User) (domain.Transition, error),
) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir, err := s.repo.LoadDirectory(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	u, ok := dir.Active()
	if !ok {
		return nil, domain.ErrAuthenticationRequired
	}

	tr, err := fn(u)
	if err != nil {
		return nil, err
	}
	if err := s.commit(ctx, &dir, tr); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.emit(ctx, tr)
	return &tr.User, nil
}

// mutateTarget applies fn to an arbitrary directory user. The session needs
// no refresh since it only points into the directory.
func (s *enrollmentService) mutateTarget(
	ctx context.Context,
	op, userID string,
	fn func(domain.User) domain.Transition,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir, err := s.repo.LoadDirectory(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	i := dir.FindByID(userID)
	if i < 0 {
		s.log.Debug().Str("user_id", userID).Msgf("%s skipped, unknown user", op)
		return nil
	}

	tr := fn(dir.Users[i])
	if err := s.commit(ctx, &dir, tr); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.emit(ctx, tr)
	return nil
}

// commit writes the directory when the transition changed the user.
func (s *enrollmentService) commit(ctx context.Context, dir *domain.Directory, tr domain.Transition) error {
	if !tr.Changed {
		return nil
	}
	dir.Put(tr.User)
	if err := s.repo.SaveUsers(ctx, dir.Users); err != nil {
		return fmt.Errorf("save users: %w", err)
	}
	return nil
}

// emit turns transition events into notifications.
func (s *enrollmentService) emit(ctx context.Context, tr domain.Transition) {
	countEvents(tr.Events)
	for _, ev := range tr.Events {
		var course *domain.Course
		if ev.CourseID != "" {
			c, err := s.lookupCourse(ctx, ev.CourseID)
			if err != nil {
				s.log.Warn().Err(err).Str("course_id", ev.CourseID).Msg("course lookup failed for notification")
			}
			course = c
		}
		s.log.Debug().Str("event", string(ev.Kind)).Str("user_id", ev.UserID).Str("course_id", ev.CourseID).Msg("enrollment event")
		s.out.announce(notificationsFor(ev, tr.User, course)...)
	}
}

// lookupCourse returns nil without error for an unknown course.
func (s *enrollmentService) lookupCourse(ctx context.Context, id string) (*domain.Course, error) {
	c, err := s.courses.FindCourse(ctx, id)
	if errors.Is(err, domain.ErrCourseNotFound) {
		return nil, nil
	}
	return c, err
}
