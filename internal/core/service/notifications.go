package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/deepmetric/institute-portal/internal/core/domain"
	"github.com/deepmetric/institute-portal/internal/core/ports"
	"github.com/deepmetric/institute-portal/internal/pkg/metrics"
)

const emailSignature = "\n\nBest,\nDeepmetric Team"

// announcer stamps notifications and hands them to the sink.
type announcer struct {
	sink  ports.Notifier
	newID func() string
	now   func() time.Time
}

func newAnnouncer(sink ports.Notifier) announcer {
	return announcer{sink: sink, newID: uuid.NewString, now: time.Now}
}

func (a announcer) announce(ns ...domain.Notification) {
	for _, n := range ns {
		n.ID = a.newID()
		n.CreatedAt = a.now().UTC()
		a.sink.Notify(n)
	}
}

func toast(audience string, category domain.Category, format string, args ...any) domain.Notification {
	return domain.Notification{
		Audience: audience,
		Message:  fmt.Sprintf(format, args...),
		Category: category,
	}
}

// email builds the simulated outbound message for u.
func email(u domain.User, subject, body string) domain.Notification {
	return domain.Notification{
		Audience: u.ID,
		Message:  fmt.Sprintf("Email sent to %s: %s", u.Email, subject),
		Category: domain.CategoryEmail,
		Email:    &domain.Email{To: u.Email, Subject: subject, Body: body + emailSignature},
	}
}

// notificationsFor renders the user-facing messages for one enrollment
// event. course is nil when the id does not resolve in the catalog.
func notificationsFor(ev domain.Event, u domain.User, course *domain.Course) []domain.Notification {
	title := "course"
	if course != nil {
		title = course.Title
	}

	switch ev.Kind {
	case domain.EventWelcome:
		return []domain.Notification{toast(u.ID, domain.CategorySuccess, "Welcome to Deepmetric, %s!", u.Name)}

	case domain.EventWelcomeBack:
		return []domain.Notification{toast(u.ID, domain.CategorySuccess, "Welcome back, %s!", u.Name)}

	case domain.EventLoggedOut:
		return []domain.Notification{toast(u.ID, domain.CategoryInfo, "You have successfully logged out.")}

	case domain.EventCourseRegistered:
		out := []domain.Notification{toast(u.ID, domain.CategorySuccess, "Successfully registered for %s!", title)}
		if course != nil {
			out = append(out, email(u, "Course Registration Confirmation", fmt.Sprintf(
				"Dear %s,\n\nYou have successfully registered for %s. We are excited to have you on board!",
				u.Name, course.Title)))
		}
		return out

	case domain.EventCompletionRequested:
		return []domain.Notification{toast(u.ID, domain.CategoryInfo, "Completion request sent for %s", title)}

	case domain.EventCompletionApproved:
		out := []domain.Notification{toast(domain.AudienceAdmins, domain.CategorySuccess, "Approved completion for %s", u.Name)}
		if course != nil {
			out = append(out, email(u, "Course Completion Approved", fmt.Sprintf(
				"Dear %s,\n\nCongratulations! Your completion of the course \"%s\" has been approved by the administration. "+
					"You can now view and download your certificate.",
				u.Name, course.Title)))
		}
		return out

	case domain.EventCompletionRejected:
		out := []domain.Notification{toast(domain.AudienceAdmins, domain.CategoryInfo, "Rejected completion for %s", u.Name)}
		if course != nil {
			out = append(out, email(u, "Course Completion Update", fmt.Sprintf(
				"Dear %s,\n\nRegarding your completion request for \"%s\". It has been reviewed and requires further action. "+
					"Please contact your instructor.",
				u.Name, course.Title)))
		}
		return out

	case domain.EventCertificateIssued:
		if course == nil {
			return nil
		}
		return []domain.Notification{email(u, "Certificate Generated", fmt.Sprintf(
			"Dear %s,\n\nYour certificate for \"%s\" has been generated and is ready for download.",
			u.Name, course.Title))}
	}
	return nil
}

func countEvents(events []domain.Event) {
	for _, ev := range events {
		metrics.EnrollmentEventsTotal.WithLabelValues(string(ev.Kind)).Inc()
	}
}
