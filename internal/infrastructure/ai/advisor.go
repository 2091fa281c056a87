package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"

	"github.com/deepmetric/institute-portal/internal/core/domain"
	"github.com/deepmetric/institute-portal/internal/pkg/richtext"
)

const advisorTemperature = 0.7

const advisorInstructions = `You are an expert Academic Advisor at Deepmetric Analytics Institute.
Your goal is to help potential students find the perfect course for their career goals.
The currency for all courses is %s (Ghanaian Cedi).

Here is our CURRENT Course Catalog (prices and details may have changed recently): %s

Rules:
1. Only recommend courses from the catalog provided above.
2. Be encouraging, professional, and concise.
3. If a user asks about pricing, mention the specific price from the catalog in %s.
4. If a user is unsure, ask them about their current skill level (Beginner, Intermediate, Advanced).
5. Keep responses under 100 words unless detailed analysis is requested.`

// catalogEntry is the slice of a course the advisor is shown.
type catalogEntry struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Level       domain.Level `json:"level"`
	Tags        []string     `json:"tags"`
	Price       float64      `json:"price"`
	Instructor  string       `json:"instructor"`
}

func systemPrompt(catalog []domain.Course) (string, error) {
	entries := make([]catalogEntry, 0, len(catalog))
	for _, c := range catalog {
		entries = append(entries, catalogEntry{
			Title:       c.Title,
			Description: richtext.PlainText(c.Description),
			Level:       c.Level,
			Tags:        c.Tags,
			Price:       c.Price,
			Instructor:  c.Instructor,
		})
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(entries); err != nil {
		return "", fmt.Errorf("encode catalog: %w", err)
	}
	raw := strings.TrimSuffix(buf.String(), "\n")
	return fmt.Sprintf(advisorInstructions, domain.Currency, raw, domain.Currency), nil
}

func chatMessages(system, message string, history []domain.ChatMessage) []openai.ChatCompletionMessageParamUnion {
	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+2)
	msgs = append(msgs, openai.SystemMessage(system))
	for _, m := range history {
		if m.Role == domain.ChatRoleModel {
			msgs = append(msgs, openai.AssistantMessage(m.Text))
		} else {
			msgs = append(msgs, openai.UserMessage(m.Text))
		}
	}
	return append(msgs, openai.UserMessage(message))
}

// Reply streams an advisor answer. Fragments go to onDelta as they arrive;
// an attempt is only retried if nothing has been streamed yet.
func (c *Client) Reply(
	ctx context.Context,
	message string,
	history []domain.ChatMessage,
	catalog []domain.Course,
	onDelta func(string),
) (string, error) {
	system, err := systemPrompt(catalog)
	if err != nil {
		return "", err
	}
	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(c.model),
		Messages:    chatMessages(system, message, history),
		Temperature: openai.Float(advisorTemperature),
	}

	var reply strings.Builder
	err = c.do(ctx, "chat", func(ctx context.Context) (bool, error) {
		reply.Reset()
		streamed := false

		stream := c.api.Chat.Completions.NewStreaming(ctx, params)
		defer stream.Close()

		for stream.Next() {
			chunk := stream.Current()
			if len(chunk.Choices) == 0 {
				continue
			}
			delta := chunk.Choices[0].Delta.Content
			if delta == "" {
				continue
			}
			streamed = true
			reply.WriteString(delta)
			if onDelta != nil {
				onDelta(delta)
			}
		}
		return !streamed, stream.Err()
	})
	if err != nil {
		return "", fmt.Errorf("advisor reply: %w", err)
	}
	if reply.Len() == 0 {
		return "", errors.New("advisor reply: empty response")
	}
	return reply.String(), nil
}
