package chat

import (
	"context"
	"errors"
	"strings"
	"sync"

	"finchat/pkg/llm"
	"finchat/pkg/marketdata"
)

type llmCall struct {
	messages    []llm.Message
	temperature float64
	maxTokens   int
}

func (c llmCall) system() string {
	parts, _ := splitByRole(c.messages)
	return parts
}

func (c llmCall) user() string {
	_, parts := splitByRole(c.messages)
	return parts
}

func splitByRole(messages []llm.Message) (system, user string) {
	for _, m := range messages {
		switch m.Role {
		case llm.RoleSystem:
			system += m.Content
		case llm.RoleUser:
			user += m.Content
		}
	}
	return system, user
}

// scriptedLLM plays back queued completions in order and records every
// call. Token counts come from the counts map, summed per newline-joined
// chunk so accumulated digests count additively.
type scriptedLLM struct {
	responses []string
	genErr    error
	counts    map[string]int
	countOff  bool

	calls []llmCall
}

func (f *scriptedLLM) Generate(_ context.Context, messages []llm.Message, temperature float64, maxTokens int) (string, error) {
	f.calls = append(f.calls, llmCall{messages: messages, temperature: temperature, maxTokens: maxTokens})
	if f.genErr != nil {
		return "", f.genErr
	}
	if len(f.responses) == 0 {
		return "", errors.New("scripted llm exhausted")
	}
	next := f.responses[0]
	f.responses = f.responses[1:]
	return next, nil
}

func (f *scriptedLLM) CountTokens(_ context.Context, text string) (int, bool) {
	if f.countOff {
		return 0, false
	}
	total := 0
	for _, chunk := range strings.Split(text, "\n") {
		if n, ok := f.counts[chunk]; ok {
			total += n
		} else {
			total++
		}
	}
	return total, true
}

func (f *scriptedLLM) Backend() string {
	return "fake"
}

// fakeMarketData serves canned lookups and records which were made. The
// mutex matters: the stock fan-out calls it from three goroutines.
type fakeMarketData struct {
	quote       *marketdata.Quote
	quoteErr    error
	overview    *marketdata.Overview
	overviewErr error
	news        []marketdata.NewsItem
	newsErr     error
	market      []marketdata.NewsItem
	marketErr   error

	mu    sync.Mutex
	calls []string
}

func (f *fakeMarketData) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *fakeMarketData) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeMarketData) Quote(_ context.Context, _ string) (*marketdata.Quote, error) {
	f.record("quote")
	return f.quote, f.quoteErr
}

func (f *fakeMarketData) Overview(_ context.Context, _ string) (*marketdata.Overview, error) {
	f.record("overview")
	return f.overview, f.overviewErr
}

func (f *fakeMarketData) TickerNews(_ context.Context, _ string, _ int) ([]marketdata.NewsItem, error) {
	f.record("ticker_news")
	return f.news, f.newsErr
}

func (f *fakeMarketData) MarketNews(_ context.Context, _ int) ([]marketdata.NewsItem, error) {
	f.record("market_news")
	return f.market, f.marketErr
}

func (f *fakeMarketData) Name() string {
	return "fake"
}
