package domain

import "time"

// Category classifies a notification for display.
type Category string

const (
	CategorySuccess Category = "success"
	CategoryInfo    Category = "info"
	CategoryEmail   Category = "email"
)

// Email is a simulated outbound message.
type Email struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// AudienceAdmins addresses a notification to every administrator.
const AudienceAdmins = "admins"

// Notification is a transient, fire-and-forget message for the UI.
// Audience is the user id the message is shown to, AudienceAdmins, or empty
// for everyone.
type Notification struct {
	ID        string    `json:"id"`
	Audience  string    `json:"audience,omitempty"`
	Message   string    `json:"message"`
	Category  Category  `json:"category"`
	Email     *Email    `json:"email,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// EventKind names an enrollment transition that produced an observable effect.
type EventKind string

const (
	EventWelcome             EventKind = "welcome"
	EventWelcomeBack         EventKind = "welcome_back"
	EventLoggedOut           EventKind = "logged_out"
	EventCourseRegistered    EventKind = "course_registered"
	EventCompletionRequested EventKind = "completion_requested"
	EventCompletionApproved  EventKind = "completion_approved"
	EventCompletionRejected  EventKind = "completion_rejected"
	EventCertificateIssued   EventKind = "certificate_issued"
)

// Event is emitted by a pure transition; adapters turn events into
// notifications and simulated emails.
type Event struct {
	Kind     EventKind
	UserID   string
	CourseID string
}

// VisibleTo reports whether a user with the given id and role should see n.
func (n Notification) VisibleTo(userID string, role Role) bool {
	switch n.Audience {
	case "":
		return true
	case AudienceAdmins:
		return role == RoleAdmin
	default:
		return n.Audience == userID
	}
}
