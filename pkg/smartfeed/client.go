// Package smartfeed is a historical candle client for an Angel One-style
// SmartAPI broker endpoint. It handles TOTP session login and candle
// retrieval, and satisfies model.BarProvider. Weekly and monthly series
// are resampled locally from daily bars, since the upstream API serves
// intraday-to-daily intervals only.
package smartfeed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/pquerna/otp/totp"

	"alpha-enginev1/internal/model"
)

const (
	routeLogin   = "/rest/auth/angelbroking/user/v1/loginByPassword"
	routeCandles = "/rest/secure/angelbroking/historical/v1/getCandleData"

	defaultTimeout = 10 * time.Second

	// The monthly trend classifier needs 20 resampled monthly bars, the
	// longest lookback anywhere downstream (SMA-200 on daily bars needs
	// less). 900 calendar days covers ~29 months with slack for holidays.
	historyDays = 900
)

// Config for the feed client. TOTPSecret is the base32 seed the broker
// issued for two-factor login.
type Config struct {
	BaseURL    string
	APIKey     string
	ClientCode string
	PIN        string
	TOTPSecret string
	Timeout    time.Duration
}

// Client is a session-holding feed client. Safe for concurrent use; the
// session is established lazily on first request and re-established on
// auth expiry.
type Client struct {
	cfg        Config
	httpClient *http.Client

	mu  sync.Mutex
	jwt string
}

// New creates a feed client.
func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

type apiEnvelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// login generates the current TOTP code and exchanges credentials for a
// session token.
func (c *Client) login(ctx context.Context) error {
	code, err := totp.GenerateCode(c.cfg.TOTPSecret, time.Now())
	if err != nil {
		return fmt.Errorf("totp generate: %w", err)
	}

	body, _ := json.Marshal(map[string]string{
		"clientcode": c.cfg.ClientCode,
		"password":   c.cfg.PIN,
		"totp":       code,
	})
	var env apiEnvelope
	if err := c.post(ctx, routeLogin, body, "", &env); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if !env.Status {
		return fmt.Errorf("login rejected: %s", env.Message)
	}

	var data struct {
		JWTToken string `json:"jwtToken"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return fmt.Errorf("login payload: %w", err)
	}
	if data.JWTToken == "" {
		return fmt.Errorf("login returned no token")
	}

	c.mu.Lock()
	c.jwt = data.JWTToken
	c.mu.Unlock()
	return nil
}

func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	jwt := c.jwt
	c.mu.Unlock()
	if jwt != "" {
		return jwt, nil
	}
	if err := c.login(ctx); err != nil {
		return "", err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.jwt, nil
}

// Bars fetches (or derives) the price series for one timeframe.
func (c *Client) Bars(ctx context.Context, ticker string, tf model.Timeframe) (*model.Series, error) {
	daily, err := c.dailyBars(ctx, ticker)
	if err != nil {
		return nil, err
	}
	switch tf {
	case model.TFDaily:
		return daily, nil
	case model.TFWeekly:
		return Resample(daily, model.TFWeekly), nil
	case model.TFMonthly:
		return Resample(daily, model.TFMonthly), nil
	default:
		return nil, fmt.Errorf("smartfeed: unsupported timeframe %q", tf)
	}
}

func (c *Client) dailyBars(ctx context.Context, ticker string) (*model.Series, error) {
	jwt, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	to := time.Now()
	from := to.AddDate(0, 0, -historyDays)
	body, _ := json.Marshal(map[string]string{
		"symboltoken": ticker,
		"interval":    "ONE_DAY",
		"fromdate":    from.Format("2006-01-02 15:04"),
		"todate":      to.Format("2006-01-02 15:04"),
	})

	var env apiEnvelope
	if err := c.post(ctx, routeCandles, body, jwt, &env); err != nil {
		return nil, fmt.Errorf("candles %s: %w", ticker, err)
	}
	if !env.Status {
		// A stale session reads as a rejected request; retry once with a
		// fresh login before giving up.
		if err := c.login(ctx); err != nil {
			return nil, err
		}
		jwt, _ = c.token(ctx)
		if err := c.post(ctx, routeCandles, body, jwt, &env); err != nil {
			return nil, fmt.Errorf("candles %s (retry): %w", ticker, err)
		}
		if !env.Status {
			return nil, fmt.Errorf("candles %s rejected: %s", ticker, env.Message)
		}
	}

	return parseCandles(ticker, env.Data)
}

// parseCandles decodes the [[ts, o, h, l, c, v], ...] rows the API
// returns.
func parseCandles(ticker string, data json.RawMessage) (*model.Series, error) {
	var rows [][]json.RawMessage
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("candle rows: %w", err)
	}

	series := &model.Series{Ticker: ticker, Timeframe: model.TFDaily}
	for i, row := range rows {
		if len(row) < 6 {
			return nil, fmt.Errorf("candle row %d: %d fields", i, len(row))
		}
		var tsStr string
		if err := json.Unmarshal(row[0], &tsStr); err != nil {
			return nil, fmt.Errorf("candle row %d ts: %w", i, err)
		}
		ts, err := time.Parse(time.RFC3339, tsStr)
		if err != nil {
			return nil, fmt.Errorf("candle row %d ts %q: %w", i, tsStr, err)
		}

		var b model.Bar
		b.TS = ts.UTC()
		nums := []*float64{&b.Open, &b.High, &b.Low, &b.Close}
		for j, dst := range nums {
			if err := json.Unmarshal(row[j+1], dst); err != nil {
				return nil, fmt.Errorf("candle row %d field %d: %w", i, j+1, err)
			}
		}
		var vol float64
		if err := json.Unmarshal(row[5], &vol); err != nil {
			return nil, fmt.Errorf("candle row %d volume: %w", i, err)
		}
		b.Volume = int64(vol)
		series.Bars = append(series.Bars, b)
	}
	return series, nil
}

func (c *Client) post(ctx context.Context, route string, body []byte, jwt string, out *apiEnvelope) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+route, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-PrivateKey", c.cfg.APIKey)
	req.Header.Set("X-UserType", "USER")
	req.Header.Set("X-SourceID", "WEB")
	if jwt != "" {
		req.Header.Set("Authorization", "Bearer "+jwt)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
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
