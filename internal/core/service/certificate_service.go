package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/deepmetric/institute-portal/internal/core/domain"
	"github.com/deepmetric/institute-portal/internal/core/ports"
	"github.com/deepmetric/institute-portal/internal/pkg/metrics"
)

type certificateService struct {
	enrollment ports.EnrollmentService
	courses    ports.CourseLookup
	renderer   ports.CertificateRenderer
	fallback   ports.CertificateRenderer
	issuer     string
	out        announcer
	now        func() time.Time
	log        zerolog.Logger
}

// NewCertificateService returns a CertificateService. fallback renders the
// printable document used when renderer fails.
func NewCertificateService(
	enrollment ports.EnrollmentService,
	courses ports.CourseLookup,
	renderer, fallback ports.CertificateRenderer,
	issuer string,
	notifier ports.Notifier,
	log zerolog.Logger,
) ports.CertificateService {
	return &certificateService{
		enrollment: enrollment,
		courses:    courses,
		renderer:   renderer,
		fallback:   fallback,
		issuer:     issuer,
		out:        newAnnouncer(notifier),
		now:        time.Now,
		log:        log,
	}
}

// Issue renders a certificate of completion for the session user.
func (s *certificateService) Issue(ctx context.Context, courseID string) (*ports.Document, error) {
	u, err := s.enrollment.ActiveUser(ctx)
	if err != nil {
		return nil, err
	}
	if !u.IsCompleted(courseID) {
		return nil, fmt.Errorf("issue certificate for %s: %w", courseID, domain.ErrCourseNotCompleted)
	}
	course, err := s.courses.FindCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("issue certificate: %w", err)
	}

	cert := domain.Certificate{
		RecipientName: u.Name,
		CourseTitle:   course.Title,
		Instructor:    course.Instructor,
		Issuer:        s.issuer,
		IssuedAt:      s.now(),
	}

	doc, err := s.renderer.Render(ctx, cert)
	format := "png"
	if err != nil {
		s.log.Warn().Err(err).Str("course_id", courseID).Msg("certificate render failed, using print fallback")
		if doc, err = s.fallback.Render(ctx, cert); err != nil {
			return nil, fmt.Errorf("issue certificate: %w", err)
		}
		format = "html"
	}
	metrics.CertificatesIssuedTotal.WithLabelValues(format).Inc()

	ev := domain.Event{Kind: domain.EventCertificateIssued, UserID: u.ID, CourseID: courseID}
	countEvents([]domain.Event{ev})
	s.out.announce(notificationsFor(ev, *u, course)...)
	s.log.Info().Str("user_id", u.ID).Str("course_id", courseID).Str("format", format).Msg("certificate issued")
	return doc, nil
}
