package model

import (
	"context"
	"errors"
)

// ErrNoData is the terminal failure for an analysis: the primary (daily)
// price series was empty. Anything short of this degrades individual
// snapshot fields instead.
var ErrNoData = errors.New("no price data")

// ── Port Interfaces ──
// These decouple the analysis pipeline from concrete data sources and
// storage (HTTP providers, SQLite, Redis). Each implementation satisfies
// one or more of these.

// BarProvider fetches historical price bars for a ticker at a timeframe.
type BarProvider interface {
	// Bars returns the available history, oldest first.
	Bars(ctx context.Context, ticker string, tf Timeframe) (*Series, error)
}

// FundamentalsProvider fetches fundamental ratios for a ticker.
// Implementations return a zero-value struct (all nil fields) when the
// source has nothing; scoring degrades to its neutral baseline.
type FundamentalsProvider interface {
	Fundamentals(ctx context.Context, ticker string) (FundamentalMetrics, error)
}

// NewsProvider fetches scored headlines for a ticker. Polarity scoring
// happens upstream; this engine only consumes the numbers.
type NewsProvider interface {
	Sentiment(ctx context.Context, ticker string) (SentimentSummary, error)
}

// BarStore caches fetched price series so repeated analyses of the same
// ticker do not refetch history.
type BarStore interface {
	SaveSeries(s *Series) error
	LoadSeries(ticker string, tf Timeframe) (*Series, error)
	Close() error
}

// ReportCache holds completed reports with a TTL.
type ReportCache interface {
	Put(ctx context.Context, r *Report) error
	Get(ctx context.Context, ticker string) (*Report, error)
	Close() error
}
