package chat

import (
	"context"
	"fmt"
	"log/slog"

	"finchat/pkg/llm"
	"finchat/pkg/marketdata"
)

// Result is the terminal artifact of one request. Backend is the fixed
// identifier of the completion backend configured at startup.
type Result struct {
	Response string
	Backend  string
}

// Service runs the plan -> gather -> synthesize pipeline. It holds no
// per-request state; one Process call is one full pass through the
// machine.
type Service struct {
	planner     *Planner
	aggregator  *Aggregator
	synthesizer *Synthesizer
	backend     string
}

func NewService(llmClient llm.Client, source marketdata.Client) *Service {
	return &Service{
		planner:     NewPlanner(llmClient),
		aggregator:  NewAggregator(source),
		synthesizer: NewSynthesizer(llmClient),
		backend:     llmClient.Backend(),
	}
}

func (s *Service) Process(ctx context.Context, text string) (Result, error) {
	plan := s.planner.Plan(ctx, text)
	slog.Info("request planned", "intent", plan.Intent, "entities", len(plan.Entities))

	switch plan.Intent {
	case IntentStockAnalysis:
		ticker, ok := plan.Ticker()
		if !ok {
			return s.result("I can analyze a stock, but I need a valid ticker symbol."), nil
		}

		payload := s.aggregator.GatherStock(ctx, ticker)
		if payload == nil {
			return s.result(fmt.Sprintf("Sorry, I couldn't retrieve financial data for %s.", ticker)), nil
		}
		return s.result(s.synthesizer.StockAnalysis(ctx, ticker, payload)), nil

	case IntentMarketNews:
		items := s.aggregator.GatherMarketNews(ctx)
		if len(items) == 0 {
			return s.result("Sorry, I couldn't retrieve the latest market news at the moment."), nil
		}
		return s.result(s.synthesizer.NewsDigest(ctx, text, items)), nil

	default:
		// Unrecognized intents and planning failures land here.
		return s.result(s.synthesizer.GeneralChat(ctx, text)), nil
	}
}

func (s *Service) result(text string) Result {
	return Result{Response: text, Backend: s.backend}
}
