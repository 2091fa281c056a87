package domain

import "time"

// IssueDateLayout renders dates as "18 October 2026".
const IssueDateLayout = "2 January 2006"

// Certificate is the credential view handed to a renderer.
type Certificate struct {
	RecipientName string
	CourseTitle   string
	Instructor    string
	Issuer        string
	IssuedAt      time.Time
}

// IssueDate formats IssuedAt for display.
func (c Certificate) IssueDate() string { return c.IssuedAt.Format(IssueDateLayout) }
