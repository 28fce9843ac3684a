package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"alpha-enginev1/internal/logger"
	"alpha-enginev1/internal/metrics"
	"alpha-enginev1/internal/model"
	"alpha-enginev1/internal/score"
)

// Sink receives completed reports (websocket gateway, notifier). Both
// hooks are optional and must not block the analysis path.
type Sink interface {
	Publish(r *model.Report)
}

// ServiceConfig wires the analysis service's collaborators. Providers are
// required; store, cache, metrics and sinks are optional and degrade to
// no-ops when nil.
type ServiceConfig struct {
	Bars         model.BarProvider
	Fundamentals model.FundamentalsProvider
	News         model.NewsProvider

	Store model.BarStore    // price-bar cache (SQLite)
	Cache model.ReportCache // completed-report cache (Redis)
	Prom  *metrics.Metrics

	Scoring score.Thresholds
	Sinks   []Sink

	Log *slog.Logger
}

// Service runs complete per-ticker analyses. It holds no per-request
// state: requests for different tickers are independent and safe to run
// concurrently.
type Service struct {
	cfg    ServiceConfig
	scorer *score.Engine
	log    *slog.Logger
}

// NewService creates an analysis service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Bars == nil {
		return nil, errors.New("analysis: bar provider is required")
	}
	if cfg.Log == nil {
		cfg.Log = slog.Default()
	}
	return &Service{
		cfg:    cfg,
		scorer: score.New(cfg.Scoring),
		log:    cfg.Log,
	}, nil
}

// Analyze computes a fresh report for one ticker. The report cache is
// consulted first; a hit short-circuits the whole pipeline.
func (s *Service) Analyze(ctx context.Context, ticker string) (*model.Report, error) {
	ctx = logger.WithTraceID(ctx, logger.GenerateTraceID(ticker, time.Now()))
	start := time.Now()

	if s.cfg.Cache != nil {
		if r, err := s.cfg.Cache.Get(ctx, ticker); err == nil && r != nil {
			if s.cfg.Prom != nil {
				s.cfg.Prom.CacheHits.Inc()
			}
			s.log.Debug("report cache hit", append([]any{slog.String("ticker", ticker)}, logger.LogWithTrace(ctx)...)...)
			return r, nil
		}
	}

	byTF, err := s.fetchSeries(ctx, ticker)
	if err != nil {
		return nil, err
	}

	snap, view, err := Aggregate(ticker, byTF)
	if err != nil {
		if s.cfg.Prom != nil {
			s.cfg.Prom.AnalysesFailed.Inc()
		}
		return nil, fmt.Errorf("aggregate %s: %w", ticker, err)
	}

	fund := s.fetchFundamentals(ctx, ticker)
	sent := s.fetchSentiment(ctx, ticker)

	composite := s.scorer.Score(score.Inputs{
		Ticker:      ticker,
		Technical:   snap,
		Fundamental: fund,
		Sentiment:   sent,
	})

	report := &model.Report{
		Ticker:      ticker,
		Price:       price(fund, snap),
		Score:       composite,
		Technical:   snap,
		Timeframes:  view,
		Fundamental: fund,
		Sentiment:   sent,
		Risk:        RiskFrom(byTF[model.TFDaily], fund),
		GeneratedAt: time.Now().Unix(),
	}

	if s.cfg.Cache != nil {
		if err := s.cfg.Cache.Put(ctx, report); err != nil {
			s.log.Warn("report cache write failed", slog.String("ticker", ticker), slog.Any("err", err))
		}
	}
	for _, sink := range s.cfg.Sinks {
		sink.Publish(report)
	}
	if s.cfg.Prom != nil {
		s.cfg.Prom.AnalysesTotal.Inc()
		s.cfg.Prom.AnalysisDur.Observe(time.Since(start).Seconds())
	}
	s.log.Info("analysis complete",
		append([]any{
			slog.String("ticker", ticker),
			slog.Int("overall", composite.OverallScore),
			slog.String("signal", string(composite.Signal)),
			slog.Duration("took", time.Since(start)),
		}, logger.LogWithTrace(ctx)...)...)

	return report, nil
}

// fetchSeries loads daily/weekly/monthly history, preferring the bar
// store and falling back to the provider. Only the daily series is
// mandatory; a missing weekly or monthly series degrades its trend label
// to N/A downstream.
func (s *Service) fetchSeries(ctx context.Context, ticker string) (map[model.Timeframe]*model.Series, error) {
	out := make(map[model.Timeframe]*model.Series, len(model.Timeframes))
	for _, tf := range model.Timeframes {
		series, err := s.loadOrFetch(ctx, ticker, tf)
		if err != nil {
			if tf == model.TFDaily {
				if s.cfg.Prom != nil {
					s.cfg.Prom.ProviderErrors.Inc()
				}
				return nil, fmt.Errorf("fetch %s/%s: %w", ticker, tf, err)
			}
			s.log.Warn("timeframe unavailable",
				slog.String("ticker", ticker), slog.String("tf", string(tf)), slog.Any("err", err))
			continue
		}
		out[tf] = series
	}
	return out, nil
}

func (s *Service) loadOrFetch(ctx context.Context, ticker string, tf model.Timeframe) (*model.Series, error) {
	if s.cfg.Store != nil {
		if cached, err := s.cfg.Store.LoadSeries(ticker, tf); err == nil && !cached.Empty() {
			return cached, nil
		}
	}

	series, err := s.cfg.Bars.Bars(ctx, ticker, tf)
	if err != nil {
		return nil, err
	}
	if err := series.Validate(); err != nil {
		return nil, err
	}
	if s.cfg.Store != nil && !series.Empty() {
		if err := s.cfg.Store.SaveSeries(series); err != nil {
			s.log.Warn("bar store write failed",
				slog.String("ticker", ticker), slog.String("tf", string(tf)), slog.Any("err", err))
		}
	}
	return series, nil
}

func (s *Service) fetchFundamentals(ctx context.Context, ticker string) model.FundamentalMetrics {
	if s.cfg.Fundamentals == nil {
		return model.FundamentalMetrics{}
	}
	fm, err := s.cfg.Fundamentals.Fundamentals(ctx, ticker)
	if err != nil {
		if s.cfg.Prom != nil {
			s.cfg.Prom.ProviderErrors.Inc()
		}
		s.log.Warn("fundamentals unavailable", slog.String("ticker", ticker), slog.Any("err", err))
		return model.FundamentalMetrics{}
	}
	return fm
}

func (s *Service) fetchSentiment(ctx context.Context, ticker string) model.SentimentSummary {
	if s.cfg.News == nil {
		return model.SentimentSummary{}
	}
	sent, err := s.cfg.News.Sentiment(ctx, ticker)
	if err != nil {
		if s.cfg.Prom != nil {
			s.cfg.Prom.ProviderErrors.Inc()
		}
		s.log.Warn("sentiment unavailable", slog.String("ticker", ticker), slog.Any("err", err))
		return model.SentimentSummary{}
	}
	return sent
}

// price prefers the fundamentals quote, falling back to the last close.
func price(f model.FundamentalMetrics, snap model.IndicatorSnapshot) *float64 {
	if f.Price != nil {
		return f.Price
	}
	return snap.LastClose
}
