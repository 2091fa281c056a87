package domain

import "errors"

var (
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrSessionSuperseded      = errors.New("session superseded by a newer login")
	ErrForbidden              = errors.New("access forbidden")
	ErrUserNotFound           = errors.New("user not found")
	ErrCourseNotFound         = errors.New("course not found")
	ErrCourseExists           = errors.New("course already exists")
	ErrCourseNotRegistered    = errors.New("course not registered")
	ErrCourseNotCompleted     = errors.New("course not completed")
	ErrInvalidCourse          = errors.New("invalid course")
	ErrInvalidRating          = errors.New("rating must be between 1 and 5")
	ErrEmptyMessage           = errors.New("message must not be empty")
	ErrAdvisorUnavailable     = errors.New("advisor unavailable")
	ErrRequestSuperseded      = errors.New("request superseded by a newer one")
)
