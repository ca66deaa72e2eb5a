package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/pkoukk/tiktoken-go"
)

type OpenAIClient struct {
	client    *openai.Client
	model     openai.ChatModel
	modelName string

	encoderOnce sync.Once
	encoder     *tiktoken.Tiktoken
	encoderErr  error
}

func NewOpenAIClient(apiKey string) *OpenAIClient {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIClient{
		client:    &client,
		model:     openai.ChatModelGPT4oMini,
		modelName: "gpt-4o-mini",
	}
}

func (c *OpenAIClient) Backend() string {
	return "openai"
}

func (c *OpenAIClient) Generate(ctx context.Context, messages []Message, temperature float64, maxTokens int) (string, error) {
	systemParts, userParts := splitMessages(messages)

	params := openai.ChatCompletionNewParams{
		Model:       c.model,
		Temperature: openai.Float(temperature),
		MaxTokens:   openai.Int(int64(maxTokens)),
	}
	for _, s := range systemParts {
		params.Messages = append(params.Messages, openai.SystemMessage(s))
	}
	params.Messages = append(params.Messages, openai.UserMessage(strings.Join(userParts, "\n\n")))

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		slog.Warn("openai reply had no choices")
		return EmptyMessage, nil
	}

	choice := resp.Choices[0]
	if choice.FinishReason == "content_filter" {
		slog.Warn("openai reply filtered", "finish_reason", choice.FinishReason)
		return BlockedMessage, nil
	}

	text := strings.TrimSpace(choice.Message.Content)
	if text == "" {
		slog.Warn("openai reply empty", "finish_reason", choice.FinishReason)
		return EmptyMessage, nil
	}
	return text, nil
}

// CountTokens counts locally with tiktoken; OpenAI has no counting
// endpoint. cl100k_base matches the gpt-4o family closely enough for
// budget accounting.
func (c *OpenAIClient) CountTokens(_ context.Context, text string) (int, bool) {
	c.encoderOnce.Do(func() {
		c.encoder, c.encoderErr = tiktoken.GetEncoding("cl100k_base")
	})
	if c.encoderErr != nil {
		slog.Debug("tiktoken encoder unavailable", "error", c.encoderErr)
		return 0, false
	}
	return len(c.encoder.Encode(text, nil, nil)), true
}
