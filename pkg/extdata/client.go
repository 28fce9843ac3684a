// Package extdata fetches externally computed fundamental ratios and
// headline sentiment from a JSON HTTP service. The engine consumes these
// as opaque scalars; the ratio and polarity computation happens upstream.
// Satisfies model.FundamentalsProvider and model.NewsProvider.
package extdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"alpha-enginev1/internal/model"
)

const (
	routeFundamentals = "/fundamentals"
	routeSentiment    = "/sentiment"

	defaultTimeout = 10 * time.Second
)

// Config for the external data client.
type Config struct {
	BaseURL string
	APIKey  string // sent as X-Api-Key when set
	Timeout time.Duration
}

// Client is a stateless JSON-over-HTTP data client. Safe for concurrent
// use.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// New creates an external data client.
func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// Fundamentals fetches the ratio set for one ticker. A ticker the
// service does not cover decodes to a zero-value struct, which scoring
// treats as its neutral baseline.
func (c *Client) Fundamentals(ctx context.Context, ticker string) (model.FundamentalMetrics, error) {
	var out model.FundamentalMetrics
	if err := c.get(ctx, routeFundamentals, ticker, &out); err != nil {
		return model.FundamentalMetrics{}, fmt.Errorf("fundamentals %s: %w", ticker, err)
	}
	return out, nil
}

// Sentiment fetches scored headlines for one ticker.
func (c *Client) Sentiment(ctx context.Context, ticker string) (model.SentimentSummary, error) {
	var out model.SentimentSummary
	if err := c.get(ctx, routeSentiment, ticker, &out); err != nil {
		return model.SentimentSummary{}, fmt.Errorf("sentiment %s: %w", ticker, err)
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, route, ticker string, out any) error {
	endpoint := c.cfg.BaseURL + route + "?ticker=" + url.QueryEscape(ticker)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("X-Api-Key", c.cfg.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("http %d: %s", resp.StatusCode, truncate(raw, 200))
	}
	return json.Unmarshal(raw, out)
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
