package ports

import (
	"context"

	"github.com/deepmetric/institute-portal/internal/core/domain"
)

// ChatAdvisor produces an advisor reply constrained to the given catalog.
// onDelta, when non-nil, receives streamed fragments of the reply.
type ChatAdvisor interface {
	Reply(ctx context.Context, message string, history []domain.ChatMessage, catalog []domain.Course, onDelta func(string)) (string, error)
}

// TagSuggester proposes short tags for a course.
type TagSuggester interface {
	SuggestTags(ctx context.Context, title, plainDescription string) ([]string, error)
}

// ChatReply is returned by the advisor service.
type ChatReply struct {
	ConversationID string               `json:"conversationId"`
	Reply          string               `json:"reply"`
	History        []domain.ChatMessage `json:"history"`
}

// AdvisorService is the use-case boundary for the chat advisor and tag suggestions.
// A newer request on the same conversation (or from the same requester, for
// tags) supersedes an older one, which then fails with domain.ErrRequestSuperseded.
type AdvisorService interface {
	Chat(ctx context.Context, conversationID, message string, onDelta func(string)) (*ChatReply, error)
	Transcript(conversationID string) []domain.ChatMessage
	SuggestTags(ctx context.Context, requesterID, title, description string) ([]string, error)
}
