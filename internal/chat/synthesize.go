package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"finchat/pkg/llm"
	"finchat/pkg/marketdata"
)

const (
	// maxTokens is the hard output budget for one synthesized answer.
	maxTokens        = 1024
	generalMaxTokens = 512

	synthesisErrorMessage = "Sorry, something went wrong. Please try again in a moment."

	restrictNote = "Only provide the answer content. Do not include meta commentary, disclaimers, or statements about tokens or formatting."
)

var (
	stockAnalystPrompt = fmt.Sprintf("You are a smart stock analyst. Synthesize the following data into a concise analysis for a retail investor. Start the response directly with the analysis. Format response and provide response less than %d tokens. %s", maxTokens, restrictNote)

	newsItemPrompt = fmt.Sprintf("You are a financial news assistant. Summarize the following market news headline and summary into a clear, easy-to-read entry for a general audience. Format response and provide response less than %d tokens. %s", maxTokens, restrictNote)

	generalChatPrompt = fmt.Sprintf("You are a financial assistant. You can provide a detailed analysis of a stock if given a ticker (e.g., 'analyze TSLA') or provide the latest general market news. For other topics, act as a helpful assistant. Format response and provide response less than %d tokens. %s", maxTokens, restrictNote)
)

type Synthesizer struct {
	llm llm.Client
}

func NewSynthesizer(client llm.Client) *Synthesizer {
	return &Synthesizer{llm: client}
}

// StockAnalysis is a single completion round-trip over the serialized
// payload.
func (s *Synthesizer) StockAnalysis(ctx context.Context, ticker string, payload *StockPayload) string {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		slog.Error("stock payload serialization failed", "ticker", ticker, "error", err)
		return synthesisErrorMessage
	}

	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: stockAnalystPrompt},
		{Role: llm.RoleUser, Content: fmt.Sprintf("Data for %s:\n%s", ticker, data)},
	}
	return s.generate(ctx, messages, maxTokens)
}

// digestState is one request's running digest. It lives on the stack of a
// single NewsDigest call, so concurrent requests cannot corrupt each
// other's budget accounting.
type digestState struct {
	text   string
	tokens int
}

// append joins candidate onto the digest and re-measures the whole text.
// Re-measuring (rather than summing) tolerates tokenizer non-additivity.
// ok is false when counting was unavailable.
func (d *digestState) append(ctx context.Context, client llm.Client, candidate string) bool {
	if d.text == "" {
		d.text = candidate
	} else {
		d.text = d.text + "\n" + candidate
	}

	total, ok := client.CountTokens(ctx, d.text)
	if !ok {
		return false
	}
	d.tokens = total
	return true
}

// NewsDigest summarizes items one by one, in provider order, under the
// token budget: an item is appended only while the running count plus its
// own count stays within maxTokens, and the loop stops outright at the
// first item over budget. If token counting becomes unavailable the loop
// also stops, keeping the digest bounded. A final pass then re-synthesizes
// the accumulated summaries with the user's query into one narrative.
func (s *Synthesizer) NewsDigest(ctx context.Context, userText string, items []marketdata.NewsItem) string {
	var state digestState
	for _, item := range items {
		data, err := json.Marshal(item)
		if err != nil {
			slog.Error("news item serialization failed", "error", err)
			continue
		}

		messages := []llm.Message{
			{Role: llm.RoleSystem, Content: newsItemPrompt},
			{Role: llm.RoleUser, Content: "Market News:\n" + string(data)},
		}
		candidate, err := s.llm.Generate(ctx, messages, 0.5, maxTokens)
		if err != nil {
			slog.Warn("item summary failed, stopping digest", "error", err)
			break
		}

		count, ok := s.llm.CountTokens(ctx, candidate)
		if !ok {
			slog.Warn("token counting unavailable, stopping digest")
			break
		}
		if state.tokens+count > maxTokens {
			break
		}

		if !state.append(ctx, s.llm, candidate) {
			slog.Warn("token counting unavailable, stopping digest")
			break
		}
	}

	slog.Info("news digest accumulated", "tokens", state.tokens, "items", len(items))

	finalPrompt := fmt.Sprintf("You are a financial news assistant. %s Summarize the following market news headlines and summaries into a clear, easy-to-read list for a general audience. Format response and provide response less than %d tokens. %s", userText, maxTokens, restrictNote)
	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: finalPrompt},
		{Role: llm.RoleUser, Content: "Market News:\n" + state.text},
	}
	return s.generate(ctx, messages, maxTokens*2)
}

func (s *Synthesizer) GeneralChat(ctx context.Context, userText string) string {
	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: generalChatPrompt},
		{Role: llm.RoleUser, Content: userText},
	}
	return s.generate(ctx, messages, generalMaxTokens)
}

func (s *Synthesizer) generate(ctx context.Context, messages []llm.Message, budget int) string {
	out, err := s.llm.Generate(ctx, messages, 0.5, budget)
	if err != nil {
		slog.Error("synthesis call failed", "error", err)
		return synthesisErrorMessage
	}
	return out
}
