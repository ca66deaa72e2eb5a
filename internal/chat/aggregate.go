package chat

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"finchat/pkg/marketdata"
)

const (
	stockNewsLimit  = 3
	marketNewsLimit = 5
)

// StockPayload consolidates one ticker's fan-out results. Sections whose
// lookup answered with no data are simply absent; partial payloads are
// valid input for synthesis.
type StockPayload struct {
	Quote    *marketdata.Quote     `json:"quote,omitempty"`
	Overview *marketdata.Overview  `json:"overview,omitempty"`
	News     []marketdata.NewsItem `json:"news,omitempty"`
}

type Aggregator struct {
	source marketdata.Client
}

func NewAggregator(source marketdata.Client) *Aggregator {
	return &Aggregator{source: source}
}

// GatherStock runs the quote, overview and news lookups concurrently. A
// transport failure on any branch aborts the whole join and returns nil;
// this is distinct from a lookup succeeding with no data, which only
// leaves its section out.
func (a *Aggregator) GatherStock(ctx context.Context, ticker string) *StockPayload {
	var payload StockPayload

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		quote, err := a.source.Quote(ctx, ticker)
		if err != nil {
			return err
		}
		payload.Quote = quote
		return nil
	})
	g.Go(func() error {
		overview, err := a.source.Overview(ctx, ticker)
		if err != nil {
			return err
		}
		payload.Overview = overview
		return nil
	})
	g.Go(func() error {
		news, err := a.source.TickerNews(ctx, ticker, stockNewsLimit)
		if err != nil {
			return err
		}
		// The stock payload carries headline and sentiment only.
		for _, item := range news {
			payload.News = append(payload.News, marketdata.NewsItem{
				Title:     item.Title,
				Sentiment: item.Sentiment,
			})
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		slog.Error("stock data fan-out failed", "ticker", ticker, "error", err)
		return nil
	}

	if payload.Quote == nil && payload.Overview == nil && len(payload.News) == 0 {
		slog.Warn("no stock data available", "ticker", ticker, "provider", a.source.Name())
		return nil
	}
	return &payload
}

// GatherMarketNews fetches a small batch of general financial-market news.
// Failures and empty listings both come back as nil.
func (a *Aggregator) GatherMarketNews(ctx context.Context) []marketdata.NewsItem {
	items, err := a.source.MarketNews(ctx, marketNewsLimit)
	if err != nil {
		slog.Error("market news fetch failed", "provider", a.source.Name(), "error", err)
		return nil
	}
	return items
}
