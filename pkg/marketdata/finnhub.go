package marketdata

import (
	"context"
	"fmt"
	"strconv"
	"time"

	finnhub "github.com/Finnhub-Stock-API/finnhub-go/v2"
)

type FinnhubClient struct {
	client *finnhub.DefaultApiService
}

func NewFinnhubClient(apiKey string) *FinnhubClient {
	cfg := finnhub.NewConfiguration()
	cfg.AddDefaultHeader("X-Finnhub-Token", apiKey)
	client := finnhub.NewAPIClient(cfg).DefaultApi
	return &FinnhubClient{client: client}
}

func (c *FinnhubClient) Name() string {
	return "Finnhub"
}

// Quote maps Finnhub's current price and percent change. Finnhub quotes
// carry no volume, so that field stays empty.
func (c *FinnhubClient) Quote(ctx context.Context, symbol string) (*Quote, error) {
	res, _, err := c.client.Quote(ctx).Symbol(symbol).Execute()
	if err != nil {
		return nil, fmt.Errorf("finnhub quote: %w", err)
	}

	if res.C == nil || *res.C == 0 {
		return nil, nil
	}

	q := &Quote{Price: formatFloat(res.C)}
	if res.Dp != nil {
		q.ChangePercent = formatFloat(res.Dp) + "%"
	}
	return q, nil
}

func (c *FinnhubClient) Overview(ctx context.Context, symbol string) (*Overview, error) {
	profile, _, err := c.client.CompanyProfile2(ctx).Symbol(symbol).Execute()
	if err != nil {
		return nil, fmt.Errorf("finnhub profile: %w", err)
	}

	financials, _, err := c.client.CompanyBasicFinancials(ctx).Symbol(symbol).Metric("all").Execute()
	if err != nil {
		return nil, fmt.Errorf("finnhub financials: %w", err)
	}

	o := &Overview{}
	if profile.MarketCapitalization != nil && *profile.MarketCapitalization > 0 {
		// Finnhub reports market cap in millions.
		o.MarketCap = strconv.FormatFloat(float64(*profile.MarketCapitalization)*1e6, 'f', 0, 64)
	}
	if financials.Metric != nil {
		m := *financials.Metric
		o.PERatio = metricString(m, "peBasicExclExtraTTM")
		o.EPS = metricString(m, "epsBasicExclExtraItemsTTM")
		o.Week52High = metricString(m, "52WeekHigh")
		o.Week52Low = metricString(m, "52WeekLow")
	}

	if *o == (Overview{}) {
		return nil, nil
	}
	return o, nil
}

func (c *FinnhubClient) TickerNews(ctx context.Context, symbol string, limit int) ([]NewsItem, error) {
	to := time.Now()
	from := to.AddDate(0, 0, -7)

	res, _, err := c.client.CompanyNews(ctx).
		Symbol(symbol).
		From(from.Format("2006-01-02")).
		To(to.Format("2006-01-02")).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("finnhub company news: %w", err)
	}

	var items []NewsItem
	for _, n := range res {
		if len(items) == limit {
			break
		}
		items = append(items, newsItem(n.Headline, n.Summary))
	}
	return items, nil
}

func (c *FinnhubClient) MarketNews(ctx context.Context, limit int) ([]NewsItem, error) {
	res, _, err := c.client.MarketNews(ctx).Category("general").Execute()
	if err != nil {
		return nil, fmt.Errorf("finnhub market news: %w", err)
	}

	var items []NewsItem
	for _, n := range res {
		if len(items) == limit {
			break
		}
		items = append(items, newsItem(n.Headline, n.Summary))
	}
	return items, nil
}

func newsItem(headline, summary *string) NewsItem {
	item := NewsItem{}
	if headline != nil {
		item.Title = *headline
	}
	if summary != nil {
		item.Summary = *summary
	}
	return item
}

func formatFloat(f *float32) string {
	return strconv.FormatFloat(float64(*f), 'f', 2, 64)
}

func metricString(m map[string]interface{}, key string) string {
	v, ok := m[key]
	if !ok {
		return ""
	}
	f, ok := v.(float64)
	if !ok {
		return ""
	}
	return strconv.FormatFloat(f, 'f', 2, 64)
}
