package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/deepmetric/institute-portal/internal/core/domain"
	"github.com/deepmetric/institute-portal/internal/core/ports"
	"github.com/deepmetric/institute-portal/internal/pkg/metrics"
	"github.com/deepmetric/institute-portal/internal/pkg/richtext"
)

// inflight tracks the newest request per key.
type inflight struct {
	seq    uint64
	cancel context.CancelFunc
}

type advisorService struct {
	mu          sync.Mutex
	chat        ports.ChatAdvisor
	tags        ports.TagSuggester
	catalog     ports.CatalogService
	transcripts map[string][]domain.ChatMessage
	running     map[string]inflight
	seq         uint64
	log         zerolog.Logger
}

// NewAdvisorService returns an AdvisorService implementation.
func NewAdvisorService(
	chat ports.ChatAdvisor,
	tags ports.TagSuggester,
	catalog ports.CatalogService,
	log zerolog.Logger,
) ports.AdvisorService {
	return &advisorService{
		chat:        chat,
		tags:        tags,
		catalog:     catalog,
		transcripts: make(map[string][]domain.ChatMessage),
		running:     make(map[string]inflight),
		log:         log,
	}
}

func (s *advisorService) Chat(ctx context.Context, conversationID, message string, onDelta func(string)) (*ports.ChatReply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, domain.ErrEmptyMessage
	}
	if conversationID == "" {
		conversationID = uuid.NewString()
	}

	summaries, err := s.catalog.ListCourses(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("advisor chat: %w", err)
	}
	courses := make([]domain.Course, 0, len(summaries))
	for _, cs := range summaries {
		courses = append(courses, cs.Course)
	}

	key := "chat:" + conversationID
	reqCtx, seq := s.begin(ctx, key)
	history := s.Transcript(conversationID)

	start := time.Now()
	reply, err := s.chat.Reply(reqCtx, message, history, courses, onDelta)
	metrics.AdvisorRequestDuration.WithLabelValues("chat").Observe(time.Since(start).Seconds())

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.finishLocked(key, seq) {
		metrics.AdvisorRequestsTotal.WithLabelValues("chat", "superseded").Inc()
		return nil, domain.ErrRequestSuperseded
	}
	if err == nil && strings.TrimSpace(reply) == "" {
		err = errors.New("empty reply")
	}
	if err != nil {
		metrics.AdvisorRequestsTotal.WithLabelValues("chat", "error").Inc()
		s.log.Error().Err(err).Str("conversation_id", conversationID).Msg("advisor chat failed")
		return nil, fmt.Errorf("advisor chat: %w", domain.ErrAdvisorUnavailable)
	}

	metrics.AdvisorRequestsTotal.WithLabelValues("chat", "ok").Inc()
	transcript := append(s.transcripts[conversationID],
		domain.ChatMessage{Role: domain.ChatRoleUser, Text: message},
		domain.ChatMessage{Role: domain.ChatRoleModel, Text: reply},
	)
	s.transcripts[conversationID] = transcript

	return &ports.ChatReply{
		ConversationID: conversationID,
		Reply:          reply,
		History:        append([]domain.ChatMessage(nil), transcript...),
	}, nil
}

func (s *advisorService) Transcript(conversationID string) []domain.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.ChatMessage{}, s.transcripts[conversationID]...)
}

// SuggestTags never fails on a model error; it logs and returns no tags.
func (s *advisorService) SuggestTags(ctx context.Context, requesterID, title, description string) ([]string, error) {
	title = strings.TrimSpace(title)
	plain := richtext.PlainText(description)
	if title == "" && plain == "" {
		return []string{}, nil
	}

	key := "tags:" + requesterID
	reqCtx, seq := s.begin(ctx, key)

	start := time.Now()
	tags, err := s.tags.SuggestTags(reqCtx, title, plain)
	metrics.AdvisorRequestDuration.WithLabelValues("tags").Observe(time.Since(start).Seconds())

	s.mu.Lock()
	current := s.finishLocked(key, seq)
	s.mu.Unlock()

	if !current {
		metrics.AdvisorRequestsTotal.WithLabelValues("tags", "superseded").Inc()
		return nil, domain.ErrRequestSuperseded
	}
	if err != nil {
		metrics.AdvisorRequestsTotal.WithLabelValues("tags", "error").Inc()
		s.log.Warn().Err(err).Str("user_id", requesterID).Msg("tag suggestion failed")
		return []string{}, nil
	}
	metrics.AdvisorRequestsTotal.WithLabelValues("tags", "ok").Inc()
	if tags == nil {
		tags = []string{}
	}
	return tags, nil
}

// begin registers a new request under key and cancels the one it replaces.
func (s *advisorService) begin(ctx context.Context, key string) (context.Context, uint64) {
	reqCtx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.running[key]; ok {
		prev.cancel()
	}
	s.seq++
	s.running[key] = inflight{seq: s.seq, cancel: cancel}
	return reqCtx, s.seq
}

// finishLocked reports whether seq is still the newest request for key and
// releases it. Callers hold s.mu.
func (s *advisorService) finishLocked(key string, seq uint64) bool {
	cur, ok := s.running[key]
	if !ok || cur.seq != seq {
		return false
	}
	cur.cancel()
	delete(s.running, key)
	return true
}
