package marketdata

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/assert/v2"
)

type rewriteTransport struct {
	base  string
	inner http.RoundTripper
}

func (rt *rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req2 := req.Clone(req.Context())
	parsed, _ := http.NewRequest("GET", rt.base, nil)
	req2.URL.Host = parsed.URL.Host
	req2.URL.Scheme = parsed.URL.Scheme
	return rt.inner.RoundTrip(req2)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *AlphaVantageClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := &AlphaVantageClient{
		apiKey:     "test-key",
		httpClient: srv.Client(),
	}
	client.httpClient.Transport = &rewriteTransport{base: srv.URL, inner: http.DefaultTransport}
	return client
}

func jsonHandler(payload interface{}) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(payload)
	}
}

func TestQuote(t *testing.T) {
	payload := map[string]interface{}{
		"Global Quote": map[string]interface{}{
			"01. symbol":         "TSLA",
			"05. price":          "251.3000",
			"06. volume":         "92014851",
			"10. change percent": "1.2043%",
		},
	}
	client := newTestClient(t, jsonHandler(payload))

	quote, err := client.Quote(context.Background(), "TSLA")

	assert.Equal(t, nil, err)
	assert.NotEqual(t, nil, quote)
	assert.Equal(t, "251.3000", quote.Price)
	assert.Equal(t, "92014851", quote.Volume)
	assert.Equal(t, "1.2043%", quote.ChangePercent)
}

func TestQuote_EmptyForUnknownSymbol(t *testing.T) {
	payload := map[string]interface{}{
		"Global Quote": map[string]interface{}{},
	}
	client := newTestClient(t, jsonHandler(payload))

	quote, err := client.Quote(context.Background(), "ZZZZ")

	assert.Equal(t, nil, err)
	assert.Equal(t, (*Quote)(nil), quote)
}

func TestQuote_ThrottleNotice(t *testing.T) {
	payload := map[string]interface{}{
		"Note": "Thank you for using Alpha Vantage! Our standard API rate limit is 25 requests per day.",
	}
	client := newTestClient(t, jsonHandler(payload))

	quote, err := client.Quote(context.Background(), "TSLA")

	assert.Equal(t, nil, err)
	assert.Equal(t, (*Quote)(nil), quote)
}

func TestOverview(t *testing.T) {
	payload := map[string]interface{}{
		"Symbol":               "TSLA",
		"MarketCapitalization": "800000000000",
		"PERatio":              "65.2",
		"EPS":                  "3.85",
		"52WeekHigh":           "299.29",
		"52WeekLow":            "138.80",
	}
	client := newTestClient(t, jsonHandler(payload))

	overview, err := client.Overview(context.Background(), "TSLA")

	assert.Equal(t, nil, err)
	assert.NotEqual(t, nil, overview)
	assert.Equal(t, "800000000000", overview.MarketCap)
	assert.Equal(t, "65.2", overview.PERatio)
	assert.Equal(t, "3.85", overview.EPS)
	assert.Equal(t, "299.29", overview.Week52High)
	assert.Equal(t, "138.80", overview.Week52Low)
}

func TestOverview_ErrorBody(t *testing.T) {
	payload := map[string]interface{}{
		"Error Message": "Invalid API call.",
	}
	client := newTestClient(t, jsonHandler(payload))

	overview, err := client.Overview(context.Background(), "ZZZZ")

	assert.Equal(t, nil, err)
	assert.Equal(t, (*Overview)(nil), overview)
}

func TestTickerNews(t *testing.T) {
	payload := map[string]interface{}{
		"feed": []map[string]interface{}{
			{
				"title":                   "Tesla expands in Europe",
				"summary":                 "Tesla opened a new factory.",
				"overall_sentiment_label": "Bullish",
			},
			{
				"title":                   "Analysts weigh in on TSLA",
				"summary":                 "Mixed views after earnings.",
				"overall_sentiment_label": "Neutral",
			},
		},
	}
	client := newTestClient(t, jsonHandler(payload))

	items, err := client.TickerNews(context.Background(), "TSLA", 3)

	assert.Equal(t, nil, err)
	assert.Equal(t, 2, len(items))
	assert.Equal(t, "Tesla expands in Europe", items[0].Title)
	assert.Equal(t, "Tesla opened a new factory.", items[0].Summary)
	assert.Equal(t, "Bullish", items[0].Sentiment)
}

func TestMarketNews_MissingFeed(t *testing.T) {
	payload := map[string]interface{}{
		"Information": "Please consider optimizing your API call frequency.",
	}
	client := newTestClient(t, jsonHandler(payload))

	items, err := client.MarketNews(context.Background(), 5)

	assert.Equal(t, nil, err)
	assert.Equal(t, 0, len(items))
}

func TestQuote_Non200(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	quote, err := client.Quote(context.Background(), "TSLA")

	assert.Equal(t, nil, err)
	assert.Equal(t, (*Quote)(nil), quote)
}

func TestQuote_MalformedBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>gateway error</html>"))
	})

	quote, err := client.Quote(context.Background(), "TSLA")

	assert.NotEqual(t, nil, err)
	assert.Equal(t, (*Quote)(nil), quote)
}
