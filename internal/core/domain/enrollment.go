package domain

import "fmt"

// CourseState is the lifecycle state of one (user, course) pair.
type CourseState string

const (
	StateUnregistered    CourseState = "unregistered"
	StateRegistered      CourseState = "registered"
	StatePendingApproval CourseState = "pending_approval"
	StateCompleted       CourseState = "completed"
)

// validTransitions defines the enrollment state machine. Admins may approve
// a registered course without a prior request; nothing leaves Completed.
var validTransitions = map[CourseState][]CourseState{
	StateUnregistered:    {StateRegistered},
	StateRegistered:      {StatePendingApproval, StateCompleted},
	StatePendingApproval: {StateRegistered, StateCompleted},
}

// CanTransitionTo reports whether a transition from s to next is valid.
func (s CourseState) CanTransitionTo(next CourseState) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// CourseState derives the state of courseID for u.
func (u User) CourseState(courseID string) CourseState {
	switch {
	case u.IsCompleted(courseID):
		return StateCompleted
	case u.IsPending(courseID):
		return StatePendingApproval
	case u.IsRegistered(courseID):
		return StateRegistered
	default:
		return StateUnregistered
	}
}

const (
	MinProgress = 0
	MaxProgress = 100
)

// ClampProgress bounds a caller-supplied percentage to [0, 100].
func ClampProgress(percent int) int {
	if percent < MinProgress {
		return MinProgress
	}
	if percent > MaxProgress {
		return MaxProgress
	}
	return percent
}

// Transition is the outcome of applying one operation to a user record.
// User is always a fresh copy; when Changed is false it equals the input.
type Transition struct {
	User    User
	Changed bool
	Events  []Event
}

func unchanged(u User) Transition { return Transition{User: u.Clone()} }

// Authenticate resolves a login against an existing record. existing is nil
// for an unknown email, in which case a new user with id newID is created.
func Authenticate(existing *User, newID, name, email string, isAdmin bool) Transition {
	if existing == nil {
		role := RoleStudent
		if isAdmin {
			role = RoleAdmin
		}
		u := NewUser(newID, name, email, role)
		return Transition{
			User:    u,
			Changed: true,
			Events:  []Event{{Kind: EventWelcome, UserID: u.ID}},
		}
	}

	u := existing.Clone()
	changed := false
	if isAdmin && u.Role != RoleAdmin {
		u.Role = RoleAdmin
		changed = true
	}
	// Records loaded through storage are normalized already; this covers
	// callers holding a User built by hand.
	if existing.CourseProgress == nil {
		changed = true
	}
	return Transition{
		User:    u,
		Changed: changed,
		Events:  []Event{{Kind: EventWelcomeBack, UserID: u.ID}},
	}
}

// Register enrolls u in courseID with zero progress. Registering twice is a no-op.
func Register(u User, courseID string) Transition {
	if u.IsRegistered(courseID) {
		return unchanged(u)
	}
	next := u.Clone()
	next.RegisteredCourseIDs = append(next.RegisteredCourseIDs, courseID)
	next.CourseProgress[courseID] = 0
	return Transition{
		User:    next,
		Changed: true,
		Events:  []Event{{Kind: EventCourseRegistered, UserID: u.ID, CourseID: courseID}},
	}
}

// SetProgress records a clamped progress percentage. Progress is frozen once
// a course is completed and ignored for courses the user never registered.
func SetProgress(u User, courseID string, percent int) Transition {
	if !u.IsRegistered(courseID) || u.IsCompleted(courseID) {
		return unchanged(u)
	}
	percent = ClampProgress(percent)
	if cur, ok := u.CourseProgress[courseID]; ok && cur == percent {
		return unchanged(u)
	}
	next := u.Clone()
	next.CourseProgress[courseID] = percent
	return Transition{User: next, Changed: true}
}

// RequestCompletion moves a registered course into the pending set. Courses
// already pending or completed are left alone. Evidence, when present, is
// stored against the course.
func RequestCompletion(u User, courseID, evidence string) (Transition, error) {
	state := u.CourseState(courseID)
	if state == StateUnregistered {
		return unchanged(u), fmt.Errorf("request completion of %s: %w", courseID, ErrCourseNotRegistered)
	}
	if !state.CanTransitionTo(StatePendingApproval) {
		return unchanged(u), nil
	}
	next := u.Clone()
	next.PendingCourseIDs = append(next.PendingCourseIDs, courseID)
	if evidence != "" {
		next.CompletionEvidence[courseID] = evidence
	}
	return Transition{
		User:    next,
		Changed: true,
		Events:  []Event{{Kind: EventCompletionRequested, UserID: u.ID, CourseID: courseID}},
	}, nil
}

// Approve marks courseID completed and forces its progress to 100. Approving
// an already completed course does not duplicate it.
func Approve(u User, courseID string) Transition {
	if !u.CourseState(courseID).CanTransitionTo(StateCompleted) {
		return unchanged(u)
	}
	next := u.Clone()
	next.PendingCourseIDs = without(next.PendingCourseIDs, courseID)
	next.CompletedCourseIDs = append(next.CompletedCourseIDs, courseID)
	next.CourseProgress[courseID] = MaxProgress
	return Transition{
		User:    next,
		Changed: true,
		Events:  []Event{{Kind: EventCompletionApproved, UserID: u.ID, CourseID: courseID}},
	}
}

// Reject returns a pending course to Registered. Progress and the completed
// set are untouched.
func Reject(u User, courseID string) Transition {
	if u.CourseState(courseID) != StatePendingApproval {
		return unchanged(u)
	}
	next := u.Clone()
	next.PendingCourseIDs = without(next.PendingCourseIDs, courseID)
	return Transition{
		User:    next,
		Changed: true,
		Events:  []Event{{Kind: EventCompletionRejected, UserID: u.ID, CourseID: courseID}},
	}
}
