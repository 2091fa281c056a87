package handler

import (
	"time"

	"github.com/deepmetric/institute-portal/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error    string `json:"error"`
	Redirect string `json:"redirect,omitempty"`
}

// --- Session ---

type sessionRequest struct {
	Name  string `json:"name"  validate:"required,max=120"`
	Email string `json:"email" validate:"required,email"`
}

type sessionResponse struct {
	Token     string       `json:"token,omitempty"`
	ExpiresAt *time.Time   `json:"expiresAt,omitempty"`
	User      *domain.User `json:"user"`
}

// --- Courses ---

type courseRequest struct {
	ID           string   `json:"id"           validate:"omitempty,max=64"`
	Title        string   `json:"title"        validate:"required,max=200"`
	Description  string   `json:"description"`
	Instructor   string   `json:"instructor"   validate:"required"`
	Duration     string   `json:"duration"`
	Level        string   `json:"level"        validate:"required,oneof=Beginner Intermediate Advanced"`
	Price        float64  `json:"price"        validate:"gte=0"`
	Tags         []string `json:"tags"`
	Image        string   `json:"image"        validate:"omitempty,url"`
	Requirements []string `json:"requirements"`
}

type courseResponse struct {
	domain.Course
	Stats    domain.ReviewStats `json:"stats"`
	HasRated bool               `json:"hasRated"`
}

type courseListResponse struct {
	Courses []courseResponse `json:"courses"`
	Count   int              `json:"count"`
}

// --- Reviews ---

type reviewRequest struct {
	Rating  int    `json:"rating"  validate:"required,gte=1,lte=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

type reviewListResponse struct {
	Reviews []domain.Review    `json:"reviews"`
	Stats   domain.ReviewStats `json:"stats"`
}

// --- Enrollment ---

type progressRequest struct {
	Percent *int `json:"percent" validate:"required"`
}

type completionRequest struct {
	Evidence string `json:"evidence" validate:"max=2000"`
}

type pendingListResponse struct {
	Requests []domain.PendingRequest `json:"requests"`
	Count    int                     `json:"count"`
}

// --- Advisor ---

type chatRequest struct {
	Message string `json:"message" validate:"required,max=4000"`
}

type transcriptResponse struct {
	ConversationID string               `json:"conversationId"`
	History        []domain.ChatMessage `json:"history"`
}

type tagsRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type tagsResponse struct {
	Tags []string `json:"tags"`
}

// --- Notifications ---

type notificationListResponse struct {
	Notifications []domain.Notification `json:"notifications"`
}
