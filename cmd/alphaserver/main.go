package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"alpha-enginev1/config"
	"alpha-enginev1/internal/analysis"
	"alpha-enginev1/internal/api"
	"alpha-enginev1/internal/gateway"
	"alpha-enginev1/internal/logger"
	"alpha-enginev1/internal/metrics"
	"alpha-enginev1/internal/notify"
	"alpha-enginev1/internal/score"
	redisstore "alpha-enginev1/internal/store/redis"
	sqlitestore "alpha-enginev1/internal/store/sqlite"
	"alpha-enginev1/internal/watch"
	"alpha-enginev1/pkg/extdata"
	"alpha-enginev1/pkg/smartfeed"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("config load failed", slog.Any("err", err))
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("config invalid", slog.Any("err", err))
		os.Exit(1)
	}

	log := logger.Init("alphaserver", logger.ParseLevel(cfg.Log.Level))
	log.Info("starting", slog.String("addr", cfg.Server.Addr))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	prom := metrics.NewMetrics()

	// ---- Bar store (SQLite, required) ----
	os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0o755)
	store, err := sqlitestore.Open(cfg.SQLitePath, log)
	if err != nil {
		log.Error("sqlite init failed", slog.Any("err", err))
		os.Exit(1)
	}
	defer store.Close()
	log.Info("bar store ready", slog.String("path", cfg.SQLitePath))

	// ---- Report cache (Redis, optional) ----
	svcCfg := analysis.ServiceConfig{
		Store: store,
		Prom:  prom,
		Log:   log,
	}
	if cfg.Redis.Addr != "" {
		cache, err := redisstore.NewCache(redisstore.CacheConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			TTL:      cfg.Redis.TTL,
			Prom:     prom,
		})
		if err != nil {
			log.Warn("redis unavailable, continuing without report cache", slog.Any("err", err))
		} else {
			defer cache.Close()
			svcCfg.Cache = cache
			log.Info("report cache ready", slog.String("addr", cfg.Redis.Addr))
		}
	}

	// ---- Market data provider ----
	svcCfg.Bars = smartfeed.New(smartfeed.Config{
		BaseURL:    cfg.Provider.BaseURL,
		APIKey:     cfg.Provider.APIKey,
		ClientCode: cfg.Provider.ClientCode,
		PIN:        cfg.Provider.PIN,
		TOTPSecret: cfg.Provider.TOTPSecret,
	})

	// ---- Fundamentals / sentiment service (optional) ----
	if cfg.External.BaseURL != "" {
		ext := extdata.New(extdata.Config{
			BaseURL: cfg.External.BaseURL,
			APIKey:  cfg.External.APIKey,
		})
		svcCfg.Fundamentals = ext
		svcCfg.News = ext
		log.Info("external data service wired", slog.String("base_url", cfg.External.BaseURL))
	}

	// ---- Scoring table ----
	svcCfg.Scoring = score.DefaultThresholds
	if cfg.Scoring.LegacyThresholds {
		svcCfg.Scoring = score.LegacyThresholds
		log.Info("using legacy signal thresholds")
	}

	// ---- Report sinks: websocket fan-out and telegram alerts ----
	hub := gateway.NewHub(prom, log)
	svcCfg.Sinks = append(svcCfg.Sinks, hub)
	if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != "" {
		svcCfg.Sinks = append(svcCfg.Sinks, notify.NewTelegram(cfg.Telegram.BotToken, cfg.Telegram.ChatID, log))
		log.Info("telegram alerts enabled")
	}

	svc, err := analysis.NewService(svcCfg)
	if err != nil {
		log.Error("service init failed", slog.Any("err", err))
		os.Exit(1)
	}

	// ---- Watchlist scheduler ----
	if w := watch.New(watch.Config{
		Tickers:  cfg.Watchlist.Tickers,
		CronSpec: cfg.Watchlist.Cron,
		Workers:  cfg.Watchlist.Workers,
		Prom:     prom,
		Log:      log,
	}, svc); w != nil {
		if err := w.Start(ctx); err != nil {
			log.Error("watcher start failed", slog.Any("err", err))
			os.Exit(1)
		}
		log.Info("watchlist scheduler running",
			slog.Int("tickers", len(cfg.Watchlist.Tickers)),
			slog.String("cron", cfg.Watchlist.Cron))
	}

	// ---- Standalone metrics listener, if configured ----
	if cfg.Server.MetricsAddr != "" {
		go prom.Serve(ctx, cfg.Server.MetricsAddr, log)
	}

	// ---- HTTP API ----
	handler := api.NewHandler(svc, hub, prom, log)
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("http listening", slog.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", slog.Any("err", err))
			sigCh <- syscall.SIGTERM
		}
	}()

	<-sigCh
	log.Info("shutdown signal received")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http shutdown", slog.Any("err", err))
	}
	log.Info("shutdown complete")
}
