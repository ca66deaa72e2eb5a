package llm

import "context"

const (
	RoleSystem = "system"
	RoleUser   = "user"
)

type Message struct {
	Role    string
	Content string
}

// Fixed replies for completions that come back unusable. The wrappers
// return these instead of surfacing refusal/empty states as errors.
const (
	BlockedMessage = "Sorry, I can't respond to that request due to safety policies. Please try rephrasing."
	EmptyMessage   = "I'm sorry, I didn't understand that. Can you rephrase?"
)

type Client interface {
	// Generate runs one chat completion. Blocked or empty backend output is
	// mapped to a fixed message; only transport and API failures return an
	// error.
	Generate(ctx context.Context, messages []Message, temperature float64, maxTokens int) (string, error)

	// CountTokens reports the token count of text in the backend's units.
	// ok is false when counting is unavailable.
	CountTokens(ctx context.Context, text string) (count int, ok bool)

	// Backend is the fixed identifier reported to callers.
	Backend() string
}

// splitMessages separates system instructions from user content, keeping
// the original ordering within each role.
func splitMessages(messages []Message) (system []string, user []string) {
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			system = append(system, m.Content)
		case RoleUser:
			user = append(user, m.Content)
		}
	}
	return system, user
}
