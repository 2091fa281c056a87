package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/tidwall/gjson"
)

const maxTags = 5

const tagPrompt = `Generate 5 relevant, concise, and professional tags (single words or short phrases) for a data analytics/programming course with the following details:
Title: %s
Description: %s

Return ONLY a JSON array of strings. Example: ["Python", "Data Science", "Statistics"]`

// SuggestTags asks the model for up to five tags. Empty input yields no tags
// without a request.
func (c *Client) SuggestTags(ctx context.Context, title, plainDescription string) ([]string, error) {
	if strings.TrimSpace(title) == "" && strings.TrimSpace(plainDescription) == "" {
		return []string{}, nil
	}

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{openai.UserMessage(fmt.Sprintf(tagPrompt, title, plainDescription))},
	}

	var content string
	err := c.do(ctx, "tags", func(ctx context.Context) (bool, error) {
		resp, err := c.api.Chat.Completions.New(ctx, params)
		if err != nil {
			return true, err
		}
		if len(resp.Choices) == 0 {
			return false, fmt.Errorf("no choices returned")
		}
		content = resp.Choices[0].Message.Content
		return false, nil
	})
	if err != nil {
		return nil, fmt.Errorf("suggest tags: %w", err)
	}
	return parseTags(content)
}

// parseTags extracts the JSON string array from a model answer, tolerating
// surrounding prose or a fenced code block.
func parseTags(content string) ([]string, error) {
	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start < 0 || end < start {
		return nil, fmt.Errorf("parse tags: no JSON array in %q", content)
	}
	raw := content[start : end+1]
	if !gjson.Valid(raw) {
		return nil, fmt.Errorf("parse tags: invalid JSON array")
	}

	tags := []string{}
	for _, v := range gjson.Parse(raw).Array() {
		if v.Type != gjson.String {
			continue
		}
		if t := strings.TrimSpace(v.String()); t != "" {
			tags = append(tags, t)
		}
		if len(tags) == maxTags {
			break
		}
	}
	return tags, nil
}
