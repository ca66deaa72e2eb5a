package chat

import (
	"encoding/json"
	"errors"
	"strings"
)

const (
	IntentStockAnalysis = "stock_analysis"
	IntentMarketNews    = "market_news"
	IntentGeneralChat   = "general_chat"
)

type Entity struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Plan is the planner's classification of one user request. It is built
// once per request and never mutated.
type Plan struct {
	Intent   string   `json:"intent"`
	Entities []Entity `json:"entities"`
}

func generalChatPlan() Plan {
	return Plan{Intent: IntentGeneralChat}
}

// Ticker returns the symbol the plan was routed on. ok is false when the
// first entity is missing, not a ticker, or empty.
func (p Plan) Ticker() (string, bool) {
	if len(p.Entities) == 0 || p.Entities[0].Type != "ticker" || p.Entities[0].Value == "" {
		return "", false
	}
	return p.Entities[0].Value, true
}

func parsePlan(raw string) (Plan, error) {
	cleaned := cleanJSONResponse(raw)

	var plan Plan
	if err := json.Unmarshal([]byte(cleaned), &plan); err != nil {
		return Plan{}, err
	}
	if plan.Intent == "" {
		return Plan{}, errors.New("plan missing intent")
	}
	return plan, nil
}

func cleanJSONResponse(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	// Some model responses include extra prose around JSON.
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		content = content[start : end+1]
	}
	return content
}
