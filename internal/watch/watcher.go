// Package watch runs scheduled re-analysis of a configured ticker list.
package watch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"alpha-enginev1/internal/metrics"
	"alpha-enginev1/internal/model"
)

// Analyzer is what the watcher drives; satisfied by analysis.Service.
type Analyzer interface {
	Analyze(ctx context.Context, ticker string) (*model.Report, error)
}

// Config for the watchlist scheduler.
type Config struct {
	Tickers  []string
	CronSpec string        // with seconds field, e.g. "0 */15 * * * *"
	Workers  int           // concurrent analyses per sweep; default 4
	Timeout  time.Duration // per-ticker budget; default 30s

	Prom *metrics.Metrics
	Log  *slog.Logger
}

// Watcher sweeps the watchlist on a cron schedule, fanning tickers out
// to a bounded worker pool. Analyses hold no shared state, so workers
// need no coordination beyond the feed channel.
type Watcher struct {
	cfg      Config
	analyzer Analyzer
	cron     *cron.Cron
	log      *slog.Logger
}

// New creates a watcher. Returns nil when the watchlist is empty.
func New(cfg Config, analyzer Analyzer) *Watcher {
	if len(cfg.Tickers) == 0 {
		return nil
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Log == nil {
		cfg.Log = slog.Default()
	}
	return &Watcher{
		cfg:      cfg,
		analyzer: analyzer,
		cron:     cron.New(cron.WithSeconds()),
		log:      cfg.Log,
	}
}

// Start registers the cron entry and begins scheduling. Stops when ctx
// is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	_, err := w.cron.AddFunc(w.cfg.CronSpec, func() { w.Sweep(ctx) })
	if err != nil {
		return err
	}
	w.cron.Start()

	go func() {
		<-ctx.Done()
		w.cron.Stop()
	}()

	w.log.Info("watchlist scheduled",
		slog.Int("tickers", len(w.cfg.Tickers)),
		slog.String("cron", w.cfg.CronSpec),
		slog.Int("workers", w.cfg.Workers))
	return nil
}

// Sweep analyzes every watched ticker once, bounded by the worker pool.
func (w *Watcher) Sweep(ctx context.Context) {
	if w.cfg.Prom != nil {
		w.cfg.Prom.WatchRuns.Inc()
	}
	start := time.Now()

	feed := make(chan string)
	var wg sync.WaitGroup
	for i := 0; i < w.cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ticker := range feed {
				tctx, cancel := context.WithTimeout(ctx, w.cfg.Timeout)
				if _, err := w.analyzer.Analyze(tctx, ticker); err != nil {
					w.log.Warn("watchlist analysis failed",
						slog.String("ticker", ticker), slog.Any("err", err))
				}
				cancel()
			}
		}()
	}

	for _, t := range w.cfg.Tickers {
		select {
		case <-ctx.Done():
			close(feed)
			wg.Wait()
			return
		case feed <- t:
		}
	}
	close(feed)
	wg.Wait()

	w.log.Info("watchlist sweep complete",
		slog.Int("tickers", len(w.cfg.Tickers)),
		slog.Duration("took", time.Since(start)))
}
