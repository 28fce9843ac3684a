// Package notify pushes signal alerts to Telegram. Only transitions to
// the strong ends of the table (STRONG BUY, SELL) are worth a ping;
// everything else is noise.
package notify

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"alpha-enginev1/internal/model"
)

const telegramAPI = "https://api.telegram.org"

// Telegram sends alert messages via the Bot API. Implements
// analysis.Sink; Publish is asynchronous and never blocks the caller.
type Telegram struct {
	botToken string
	chatID   string
	client   *http.Client
	log      *slog.Logger

	mu   sync.Mutex
	last map[string]model.Signal // previous signal per ticker
}

// NewTelegram creates a notifier. Token and chat ID come from config.
func NewTelegram(botToken, chatID string, log *slog.Logger) *Telegram {
	if log == nil {
		log = slog.Default()
	}
	return &Telegram{
		botToken: botToken,
		chatID:   chatID,
		client:   &http.Client{Timeout: 10 * time.Second},
		log:      log,
		last:     make(map[string]model.Signal),
	}
}

// Publish sends an alert when a ticker's signal moves into STRONG BUY or
// SELL from something else. Repeat signals stay quiet.
func (t *Telegram) Publish(r *model.Report) {
	if !t.shouldAlert(r.Ticker, r.Score.Signal) {
		return
	}
	go t.send(formatAlert(r))
}

func (t *Telegram) shouldAlert(ticker string, sig model.Signal) bool {
	t.mu.Lock()
	prev, seen := t.last[ticker]
	t.last[ticker] = sig
	t.mu.Unlock()

	if sig != model.SignalStrongBuy && sig != model.SignalSell {
		return false
	}
	return !seen || prev != sig
}

func (t *Telegram) send(text string) {
	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", telegramAPI, t.botToken)
	resp, err := t.client.PostForm(endpoint, url.Values{
		"chat_id":    {t.chatID},
		"text":       {text},
		"parse_mode": {"Markdown"},
	})
	if err != nil {
		t.log.Warn("telegram send failed", slog.Any("err", err))
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.log.Warn("telegram rejected message", slog.Int("status", resp.StatusCode))
	}
}

func formatAlert(r *model.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*%s*: %s (%s)\n", r.Ticker, r.Score.Signal, r.Score.Verdict)
	fmt.Fprintf(&b, "Overall %d | tech %d / fund %d / sent %d\n",
		r.Score.OverallScore, r.Score.TechnicalScore, r.Score.FundamentalScore, r.Score.SentimentScore)
	if r.Price != nil {
		fmt.Fprintf(&b, "Price: %.2f\n", *r.Price)
	}
	b.WriteString(r.Score.Rationale)
	return b.String()
}
