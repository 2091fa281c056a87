package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/deepmetric/institute-portal/internal/core/domain"
	"github.com/deepmetric/institute-portal/internal/core/ports"
)

// AdvisorHandler serves the chat advisor and tag suggestions. Each user has
// one conversation, keyed by their user id.
type AdvisorHandler struct {
	advisor ports.AdvisorService
}

func NewAdvisorHandler(advisor ports.AdvisorService) *AdvisorHandler {
	return &AdvisorHandler{advisor: advisor}
}

// Chat handles POST /v1/advisor/chat. Clients that accept text/event-stream
// receive the reply as "delta" events followed by a final "done" event.
//
// @Summary      Ask the course advisor
// @Tags         advisor
// @Accept       json
// @Produce      json
// @Produce      text/event-stream
// @Security     BearerAuth
// @Param        body  body      chatRequest  true  "Message"
// @Success      200   {object}  ports.ChatReply
// @Failure      401   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /v1/advisor/chat [post]
func (h *AdvisorHandler) Chat(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	req.Message = strings.TrimSpace(req.Message)
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	if !wantsStream(c) {
		reply, err := h.advisor.Chat(c.Request().Context(), p.UserID, req.Message, nil)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, reply)
	}

	return h.stream(c, p.UserID, req.Message)
}

func (h *AdvisorHandler) stream(c echo.Context, conversationID, message string) error {
	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.WriteHeader(http.StatusOK)

	reply, err := h.advisor.Chat(c.Request().Context(), conversationID, message, func(delta string) {
		_ = writeEvent(res, "delta", map[string]string{"text": delta})
	})
	if err != nil {
		msg := "advisor is unavailable, please try again"
		if errors.Is(err, domain.ErrRequestSuperseded) {
			msg = "request superseded by a newer one"
		}
		return writeEvent(res, "error", errorResponse{Error: msg})
	}
	return writeEvent(res, "done", reply)
}

func wantsStream(c echo.Context) bool {
	return strings.Contains(c.Request().Header.Get(echo.HeaderAccept), "text/event-stream")
}

func writeEvent(res *echo.Response, event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(res, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	res.Flush()
	return nil
}

// Transcript handles GET /v1/advisor/chat.
//
// @Summary      Get the advisor conversation
// @Tags         advisor
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  transcriptResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/advisor/chat [get]
func (h *AdvisorHandler) Transcript(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	history := h.advisor.Transcript(p.UserID)
	if history == nil {
		history = []domain.ChatMessage{}
	}
	return c.JSON(http.StatusOK, transcriptResponse{ConversationID: p.UserID, History: history})
}

// SuggestTags handles POST /v1/advisor/tags.
//
// @Summary      Suggest tags for a course draft
// @Tags         advisor
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      tagsRequest  true  "Course title and description"
// @Success      200   {object}  tagsResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/advisor/tags [post]
func (h *AdvisorHandler) SuggestTags(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req tagsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	tags, err := h.advisor.SuggestTags(c.Request().Context(), p.UserID, req.Title, req.Description)
	if err != nil {
		return err
	}
	if tags == nil {
		tags = []string{}
	}
	return c.JSON(http.StatusOK, tagsResponse{Tags: tags})
}
