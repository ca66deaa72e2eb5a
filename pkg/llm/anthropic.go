package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

type AnthropicClient struct {
	client    *anthropic.Client
	model     anthropic.Model
	modelName string
}

func NewAnthropicClient(apiKey string) *AnthropicClient {
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &AnthropicClient{
		client:    &client,
		model:     anthropic.ModelClaudeHaiku4_5,
		modelName: "claude-4.5-haiku",
	}
}

func (c *AnthropicClient) Backend() string {
	return "anthropic"
}

func (c *AnthropicClient) Generate(ctx context.Context, messages []Message, temperature float64, maxTokens int) (string, error) {
	systemParts, userParts := splitMessages(messages)

	params := anthropic.MessageNewParams{
		Model:       c.model,
		MaxTokens:   int64(maxTokens),
		Temperature: anthropic.Float(temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(strings.Join(userParts, "\n\n"))),
		},
	}
	for _, s := range systemParts {
		params.System = append(params.System, anthropic.TextBlockParam{Text: s})
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic API error: %w", err)
	}

	return decodeAnthropicReply(resp), nil
}

// decodeAnthropicReply reduces the response to plain text, a blocked
// signal, or an empty signal, so callers never inspect SDK shapes.
func decodeAnthropicReply(resp *anthropic.Message) string {
	if resp.StopReason == anthropic.StopReasonRefusal {
		slog.Warn("anthropic reply refused", "stop_reason", resp.StopReason)
		return BlockedMessage
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		slog.Warn("anthropic reply empty", "stop_reason", resp.StopReason)
		return EmptyMessage
	}
	return text
}

func (c *AnthropicClient) CountTokens(ctx context.Context, text string) (int, bool) {
	if text == "" {
		return 0, true
	}

	res, err := c.client.Messages.CountTokens(ctx, anthropic.MessageCountTokensParams{
		Model: c.model,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(text)),
		},
	})
	if err != nil {
		slog.Debug("anthropic count tokens failed", "error", err)
		return 0, false
	}
	return int(res.InputTokens), true
}
