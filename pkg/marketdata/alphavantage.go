package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

type AlphaVantageClient struct {
	apiKey     string
	httpClient *http.Client
}

func NewAlphaVantageClient(apiKey string) *AlphaVantageClient {
	return &AlphaVantageClient{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *AlphaVantageClient) Name() string {
	return "AlphaVantage"
}

func (c *AlphaVantageClient) Quote(ctx context.Context, symbol string) (*Quote, error) {
	url := fmt.Sprintf(
		"https://www.alphavantage.co/query?function=GLOBAL_QUOTE&symbol=%s&apikey=%s",
		symbol, c.apiKey,
	)

	var raw avQuoteResponse
	ok, err := c.getJSON(ctx, url, &raw)
	if err != nil {
		return nil, fmt.Errorf("alphavantage quote: %w", err)
	}
	if !ok || raw.notice() || raw.GlobalQuote == nil || raw.GlobalQuote.Price == "" {
		return nil, nil
	}

	return &Quote{
		Price:         raw.GlobalQuote.Price,
		ChangePercent: raw.GlobalQuote.ChangePercent,
		Volume:        raw.GlobalQuote.Volume,
	}, nil
}

func (c *AlphaVantageClient) Overview(ctx context.Context, symbol string) (*Overview, error) {
	url := fmt.Sprintf(
		"https://www.alphavantage.co/query?function=OVERVIEW&symbol=%s&apikey=%s",
		symbol, c.apiKey,
	)

	var raw avOverviewResponse
	ok, err := c.getJSON(ctx, url, &raw)
	if err != nil {
		return nil, fmt.Errorf("alphavantage overview: %w", err)
	}
	if !ok || raw.notice() || raw.MarketCap == "" {
		return nil, nil
	}

	return &Overview{
		MarketCap:  raw.MarketCap,
		PERatio:    raw.PERatio,
		EPS:        raw.EPS,
		Week52High: raw.Week52High,
		Week52Low:  raw.Week52Low,
	}, nil
}

func (c *AlphaVantageClient) TickerNews(ctx context.Context, symbol string, limit int) ([]NewsItem, error) {
	url := fmt.Sprintf(
		"https://www.alphavantage.co/query?function=NEWS_SENTIMENT&tickers=%s&limit=%d&apikey=%s",
		symbol, limit, c.apiKey,
	)
	items, err := c.fetchFeed(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("alphavantage ticker news: %w", err)
	}
	return items, nil
}

func (c *AlphaVantageClient) MarketNews(ctx context.Context, limit int) ([]NewsItem, error) {
	url := fmt.Sprintf(
		"https://www.alphavantage.co/query?function=NEWS_SENTIMENT&topics=financial_markets&limit=%d&apikey=%s",
		limit, c.apiKey,
	)
	items, err := c.fetchFeed(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("alphavantage market news: %w", err)
	}
	return items, nil
}

func (c *AlphaVantageClient) fetchFeed(ctx context.Context, url string) ([]NewsItem, error) {
	var raw avNewsResponse
	ok, err := c.getJSON(ctx, url, &raw)
	if err != nil {
		return nil, err
	}
	if !ok || raw.notice() || raw.Feed == nil {
		return nil, nil
	}

	items := make([]NewsItem, 0, len(raw.Feed))
	for _, item := range raw.Feed {
		items = append(items, NewsItem{
			Title:     item.Title,
			Summary:   item.Summary,
			Sentiment: item.SentimentLabel,
		})
	}
	return items, nil
}

// getJSON decodes the body into out. ok is false on a non-200 status,
// which the provider uses for throttling and bad symbols.
func (c *AlphaVantageClient) getJSON(ctx context.Context, url string, out interface{}) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return false, err
	}
	return true, nil
}

// avNotice covers the throttling/error bodies AlphaVantage returns with
// status 200 instead of the requested data.
type avNotice struct {
	Note        string `json:"Note"`
	Information string `json:"Information"`
	ErrorMsg    string `json:"Error Message"`
}

func (n avNotice) notice() bool {
	return n.Note != "" || n.Information != "" || n.ErrorMsg != ""
}

type avQuoteResponse struct {
	avNotice
	GlobalQuote *struct {
		Price         string `json:"05. price"`
		Volume        string `json:"06. volume"`
		ChangePercent string `json:"10. change percent"`
	} `json:"Global Quote"`
}

type avOverviewResponse struct {
	avNotice
	MarketCap  string `json:"MarketCapitalization"`
	PERatio    string `json:"PERatio"`
	EPS        string `json:"EPS"`
	Week52High string `json:"52WeekHigh"`
	Week52Low  string `json:"52WeekLow"`
}

type avNewsResponse struct {
	avNotice
	Feed []struct {
		Title          string `json:"title"`
		Summary        string `json:"summary"`
		SentimentLabel string `json:"overall_sentiment_label"`
	} `json:"feed"`
}
