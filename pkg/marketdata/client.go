package marketdata

import "context"

type Quote struct {
	Price         string `json:"price,omitempty"`
	ChangePercent string `json:"change_percent,omitempty"`
	Volume        string `json:"volume,omitempty"`
}

type Overview struct {
	MarketCap  string `json:"market_cap,omitempty"`
	PERatio    string `json:"pe_ratio,omitempty"`
	EPS        string `json:"eps,omitempty"`
	Week52High string `json:"52_week_high,omitempty"`
	Week52Low  string `json:"52_week_low,omitempty"`
}

type NewsItem struct {
	Title     string `json:"title"`
	Summary   string `json:"summary,omitempty"`
	Sentiment string `json:"sentiment,omitempty"`
}

// Client looks up market data for one provider. A nil result with a nil
// error means the provider answered but had no data (rate-limit notice,
// unknown symbol, missing listing key); an error is a transport-level
// failure.
type Client interface {
	Quote(ctx context.Context, symbol string) (*Quote, error)
	Overview(ctx context.Context, symbol string) (*Overview, error)
	TickerNews(ctx context.Context, symbol string, limit int) ([]NewsItem, error)
	MarketNews(ctx context.Context, limit int) ([]NewsItem, error)
	Name() string
}
