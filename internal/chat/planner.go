package chat

import (
	"context"
	"log/slog"

	"finchat/pkg/llm"
)

const plannerMaxTokens = 1000

const plannerPrompt = `You are a routing agent. Analyze the user's request and output a JSON plan. Possible intents are 'stock_analysis', 'market_news', and 'general_chat'. The entity type is 'ticker'. Only output the JSON plan. Examples:
User: 'Analyze Tesla (TSLA)' -> {"intent": "stock_analysis", "entities": [{"type": "ticker", "value": "TSLA"}]}
User: 'give me the latest market news' -> {"intent": "market_news", "entities": []}
User: 'Hi there' -> {"intent": "general_chat", "entities": []}`

type Planner struct {
	llm llm.Client
}

func NewPlanner(client llm.Client) *Planner {
	return &Planner{llm: client}
}

// Plan classifies userText in one completion round-trip at temperature 0.
// A failed call or unusable output degrades to general_chat; planning
// never fails a request and is never retried.
func (p *Planner) Plan(ctx context.Context, userText string) Plan {
	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: plannerPrompt},
		{Role: llm.RoleUser, Content: userText},
	}

	raw, err := p.llm.Generate(ctx, messages, 0, plannerMaxTokens)
	if err != nil {
		slog.Warn("planner call failed, falling back to general_chat", "error", err)
		return generalChatPlan()
	}

	plan, err := parsePlan(raw)
	if err != nil {
		slog.Warn("planner output unusable, falling back to general_chat", "error", err, "raw", raw)
		return generalChatPlan()
	}
	return plan
}
