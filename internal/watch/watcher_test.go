package watch

import (
	"context"
	"errors"
	"sync"
	"testing"

	"alpha-enginev1/internal/model"
)

type fakeAnalyzer struct {
	mu      sync.Mutex
	seen    []string
	failFor map[string]bool
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, ticker string) (*model.Report, error) {
	f.mu.Lock()
	f.seen = append(f.seen, ticker)
	f.mu.Unlock()
	if f.failFor[ticker] {
		return nil, errors.New("provider down")
	}
	return &model.Report{Ticker: ticker}, nil
}

func TestSweep_AnalyzesEveryTicker(t *testing.T) {
	fa := &fakeAnalyzer{}
	w := New(Config{
		Tickers:  []string{"A", "B", "C", "D", "E"},
		CronSpec: "0 0 * * * *",
		Workers:  2,
	}, fa)
	if w == nil {
		t.Fatal("expected watcher")
	}

	w.Sweep(context.Background())

	if len(fa.seen) != 5 {
		t.Fatalf("analyzed %d tickers, want 5", len(fa.seen))
	}
	got := make(map[string]bool, len(fa.seen))
	for _, s := range fa.seen {
		got[s] = true
	}
	for _, want := range []string{"A", "B", "C", "D", "E"} {
		if !got[want] {
			t.Errorf("ticker %s was never analyzed", want)
		}
	}
}

func TestSweep_FailuresDoNotStopTheSweep(t *testing.T) {
	fa := &fakeAnalyzer{failFor: map[string]bool{"B": true}}
	w := New(Config{
		Tickers:  []string{"A", "B", "C"},
		CronSpec: "0 0 * * * *",
		Workers:  1,
	}, fa)

	w.Sweep(context.Background())

	if len(fa.seen) != 3 {
		t.Errorf("analyzed %d tickers, want all 3 despite one failure", len(fa.seen))
	}
}

func TestNew_EmptyWatchlist(t *testing.T) {
	if w := New(Config{CronSpec: "@hourly"}, &fakeAnalyzer{}); w != nil {
		t.Error("empty watchlist should yield nil watcher")
	}
}
