package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/deepmetric/institute-portal/internal/core/domain"
	"github.com/deepmetric/institute-portal/internal/core/ports"
)

func TestAdvisorHandler_Chat_JSON(t *testing.T) {
	stub := &stubAdvisor{
		chatFn: func(conversationID, message string, onDelta func(string)) (*ports.ChatReply, error) {
			if conversationID != "u1" || message != "what should I take?" {
				t.Fatalf("unexpected args: %q %q", conversationID, message)
			}
			if onDelta != nil {
				t.Fatalf("json clients must not stream")
			}
			return &ports.ChatReply{ConversationID: conversationID, Reply: "Intro to Data Science."}, nil
		},
	}
	h := NewAdvisorHandler(stub)

	c, rec := newTestContext(http.MethodPost, "/v1/advisor/chat", strings.NewReader(`{"message":"  what should I take?  "}`), "u1", domain.RoleStudent)
	if err := h.Chat(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var reply ports.ChatReply
	if err := json.Unmarshal(rec.Body.Bytes(), &reply); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if reply.Reply != "Intro to Data Science." {
		t.Fatalf("unexpected reply: %+v", reply)
	}
}

func TestAdvisorHandler_Chat_EmptyMessage(t *testing.T) {
	stub := &stubAdvisor{
		chatFn: func(string, string, func(string)) (*ports.ChatReply, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewAdvisorHandler(stub)

	c, _ := newTestContext(http.MethodPost, "/v1/advisor/chat", strings.NewReader(`{"message":"   "}`), "u1", domain.RoleStudent)

	var he *echo.HTTPError
	if err := h.Chat(c); !errors.As(err, &he) || he.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %v", err)
	}
}

func TestAdvisorHandler_Chat_Unavailable(t *testing.T) {
	stub := &stubAdvisor{
		chatFn: func(string, string, func(string)) (*ports.ChatReply, error) {
			return nil, fmt.Errorf("chat: %w", domain.ErrAdvisorUnavailable)
		},
	}
	h := NewAdvisorHandler(stub)

	c, _ := newTestContext(http.MethodPost, "/v1/advisor/chat", strings.NewReader(`{"message":"hi"}`), "u1", domain.RoleStudent)
	if err := h.Chat(c); !errors.Is(err, domain.ErrAdvisorUnavailable) {
		t.Fatalf("expected ErrAdvisorUnavailable, got %v", err)
	}
}

func TestAdvisorHandler_Chat_Stream(t *testing.T) {
	stub := &stubAdvisor{
		chatFn: func(conversationID, _ string, onDelta func(string)) (*ports.ChatReply, error) {
			onDelta("Try ")
			onDelta("SQL.")
			return &ports.ChatReply{ConversationID: conversationID, Reply: "Try SQL."}, nil
		},
	}
	h := NewAdvisorHandler(stub)

	c, rec := newTestContext(http.MethodPost, "/v1/advisor/chat", strings.NewReader(`{"message":"hi"}`), "u1", domain.RoleStudent)
	c.Request().Header.Set(echo.HeaderAccept, "text/event-stream")
	if err := h.Chat(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if ct := rec.Header().Get(echo.HeaderContentType); ct != "text/event-stream" {
		t.Fatalf("unexpected content type %q", ct)
	}
	body := rec.Body.String()
	if strings.Count(body, "event: delta\n") != 2 {
		t.Fatalf("expected two delta events, got %q", body)
	}
	if !strings.Contains(body, `data: {"text":"Try "}`) {
		t.Fatalf("missing first delta: %q", body)
	}
	if !strings.HasSuffix(body, "\n\n") || !strings.Contains(body, "event: done\n") {
		t.Fatalf("missing done event: %q", body)
	}
}

func TestAdvisorHandler_Chat_StreamSuperseded(t *testing.T) {
	stub := &stubAdvisor{
		chatFn: func(string, string, func(string)) (*ports.ChatReply, error) {
			return nil, domain.ErrRequestSuperseded
		},
	}
	h := NewAdvisorHandler(stub)

	c, rec := newTestContext(http.MethodPost, "/v1/advisor/chat", strings.NewReader(`{"message":"hi"}`), "u1", domain.RoleStudent)
	c.Request().Header.Set(echo.HeaderAccept, "text/event-stream")
	if err := h.Chat(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), "event: error\ndata: {\"error\":\"request superseded by a newer one\"}") {
		t.Fatalf("expected superseded error event, got %q", rec.Body.String())
	}
}

func TestAdvisorHandler_Transcript(t *testing.T) {
	h := NewAdvisorHandler(&stubAdvisor{})

	c, rec := newTestContext(http.MethodGet, "/v1/advisor/chat", nil, "u1", domain.RoleStudent)
	if err := h.Transcript(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"history":[]`) {
		t.Fatalf("expected empty history, got %s", rec.Body.String())
	}
}

func TestAdvisorHandler_SuggestTags(t *testing.T) {
	stub := &stubAdvisor{}
	h := NewAdvisorHandler(stub)

	c, rec := newTestContext(http.MethodPost, "/v1/advisor/tags", strings.NewReader(`{"title":"","description":""}`), "admin", domain.RoleAdmin)
	if err := h.SuggestTags(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if stub.requester != "admin" {
		t.Fatalf("requester not forwarded: %q", stub.requester)
	}
	if !strings.Contains(rec.Body.String(), `"tags":[]`) {
		t.Fatalf("expected empty tags, got %s", rec.Body.String())
	}
}
