package domain

// Directory is the full set of known users plus the id of the active session.
// It is the single source of truth: the session is only a pointer into it.
type Directory struct {
	Users    []User
	ActiveID string
}

// FindByID returns the index of the user with id, or -1.
func (d Directory) FindByID(id string) int {
	if id == "" {
		return -1
	}
	for i := range d.Users {
		if d.Users[i].ID == id {
			return i
		}
	}
	return -1
}

// FindByEmail returns the index of the user whose email matches
// case-insensitively, or -1.
func (d Directory) FindByEmail(email string) int {
	for i := range d.Users {
		if d.Users[i].SameEmail(email) {
			return i
		}
	}
	return -1
}

// Active returns the session user. A dangling active id counts as no session.
func (d Directory) Active() (User, bool) {
	i := d.FindByID(d.ActiveID)
	if i < 0 {
		return User{}, false
	}
	return d.Users[i], true
}

// Put replaces the record with the same id, or appends it. The whole record
// is overwritten (last write wins).
func (d *Directory) Put(u User) {
	if i := d.FindByID(u.ID); i >= 0 {
		d.Users[i] = u
		return
	}
	d.Users = append(d.Users, u)
}

// PendingRequest is one (user, course) pair awaiting an admin decision.
type PendingRequest struct {
	UserID    string `json:"userId"`
	UserName  string `json:"userName"`
	UserEmail string `json:"userEmail"`
	CourseID  string `json:"courseId"`
	Evidence  string `json:"evidence,omitempty"`
}

// PendingRequests lists every pending completion in directory order.
func (d Directory) PendingRequests() []PendingRequest {
	out := []PendingRequest{}
	for _, u := range d.Users {
		for _, courseID := range u.PendingCourseIDs {
			out = append(out, PendingRequest{
				UserID:    u.ID,
				UserName:  u.Name,
				UserEmail: u.Email,
				CourseID:  courseID,
				Evidence:  u.CompletionEvidence[courseID],
			})
		}
	}
	return out
}
