// cmd/analyze runs a one-shot analysis for a single ticker and prints the
// report as JSON. Useful for smoke-testing provider credentials and the
// scoring pipeline without standing up the server.
//
// Usage:
//
//	go run ./cmd/analyze --ticker=RELIANCE --config=config.yaml
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"alpha-enginev1/config"
	"alpha-enginev1/internal/analysis"
	"alpha-enginev1/internal/logger"
	"alpha-enginev1/internal/score"
	sqlitestore "alpha-enginev1/internal/store/sqlite"
	"alpha-enginev1/pkg/extdata"
	"alpha-enginev1/pkg/smartfeed"
)

func main() {
	ticker := flag.String("ticker", "", "symbol token to analyze")
	configPath := flag.String("config", "config.yaml", "path to config file")
	timeout := flag.Duration("timeout", 30*time.Second, "analysis budget")
	noStore := flag.Bool("no-store", false, "skip the local bar store")
	flag.Parse()

	if *ticker == "" {
		fmt.Fprintln(os.Stderr, "usage: analyze --ticker=SYMBOL [--config=config.yaml]")
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.Init("analyze", slog.LevelWarn)

	svcCfg := analysis.ServiceConfig{
		Bars: smartfeed.New(smartfeed.Config{
			BaseURL:    cfg.Provider.BaseURL,
			APIKey:     cfg.Provider.APIKey,
			ClientCode: cfg.Provider.ClientCode,
			PIN:        cfg.Provider.PIN,
			TOTPSecret: cfg.Provider.TOTPSecret,
		}),
		Scoring: score.DefaultThresholds,
		Log:     log,
	}
	if cfg.Scoring.LegacyThresholds {
		svcCfg.Scoring = score.LegacyThresholds
	}
	if cfg.External.BaseURL != "" {
		ext := extdata.New(extdata.Config{
			BaseURL: cfg.External.BaseURL,
			APIKey:  cfg.External.APIKey,
		})
		svcCfg.Fundamentals = ext
		svcCfg.News = ext
	}
	if !*noStore {
		if store, err := sqlitestore.Open(cfg.SQLitePath, log); err == nil {
			defer store.Close()
			svcCfg.Store = store
		}
	}

	svc, err := analysis.NewService(svcCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	report, err := svc.Analyze(ctx, *ticker)
	if err != nil {
		fmt.Fprintf(os.Stderr, "analyze %s: %v\n", *ticker, err)
		os.Exit(1)
	}

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "encode: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
