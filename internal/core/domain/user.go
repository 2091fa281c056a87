package domain

import "strings"

// Role is the access level of a portal user.
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// User is one registered person together with their enrollment state.
// The JSON layout is the persisted directory record format.
type User struct {
	ID                  string            `json:"id"`
	Name                string            `json:"name"`
	Email               string            `json:"email"`
	Role                Role              `json:"role"`
	RegisteredCourseIDs []string          `json:"registeredCourseIds"`
	CompletedCourseIDs  []string          `json:"completedCourseIds"`
	PendingCourseIDs    []string          `json:"pendingCourseIds"`
	CourseProgress      map[string]int    `json:"courseProgress"`
	CompletionEvidence  map[string]string `json:"completionEvidence"`
}

// NewUser returns a user with every collection initialised and empty.
func NewUser(id, name, email string, role Role) User {
	u := User{ID: id, Name: name, Email: email, Role: role}
	u.Normalize()
	return u
}

// Normalize backfills nil collections and an empty role. It is applied to
// every record after decoding so callers never observe a nil collection.
func (u *User) Normalize() {
	if u.RegisteredCourseIDs == nil {
		u.RegisteredCourseIDs = []string{}
	}
	if u.CompletedCourseIDs == nil {
		u.CompletedCourseIDs = []string{}
	}
	if u.PendingCourseIDs == nil {
		u.PendingCourseIDs = []string{}
	}
	if u.CourseProgress == nil {
		u.CourseProgress = map[string]int{}
	}
	if u.CompletionEvidence == nil {
		u.CompletionEvidence = map[string]string{}
	}
	if u.Role == "" {
		u.Role = RoleStudent
	}
}

// Clone returns a deep copy so transitions never alias the caller's record.
func (u User) Clone() User {
	c := u
	c.RegisteredCourseIDs = append([]string(nil), u.RegisteredCourseIDs...)
	c.CompletedCourseIDs = append([]string(nil), u.CompletedCourseIDs...)
	c.PendingCourseIDs = append([]string(nil), u.PendingCourseIDs...)
	c.CourseProgress = make(map[string]int, len(u.CourseProgress))
	for k, v := range u.CourseProgress {
		c.CourseProgress[k] = v
	}
	c.CompletionEvidence = make(map[string]string, len(u.CompletionEvidence))
	for k, v := range u.CompletionEvidence {
		c.CompletionEvidence[k] = v
	}
	c.Normalize()
	return c
}

func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

func (u User) IsRegistered(courseID string) bool { return contains(u.RegisteredCourseIDs, courseID) }

func (u User) IsPending(courseID string) bool { return contains(u.PendingCourseIDs, courseID) }

func (u User) IsCompleted(courseID string) bool { return contains(u.CompletedCourseIDs, courseID) }

// SameEmail reports whether email identifies this user (case-insensitive).
func (u User) SameEmail(email string) bool {
	return strings.EqualFold(strings.TrimSpace(u.Email), strings.TrimSpace(email))
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func without(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
