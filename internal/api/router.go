// Package api exposes the analysis engine over HTTP: one-shot analysis,
// health, metrics and the websocket report stream.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"alpha-enginev1/internal/gateway"
	"alpha-enginev1/internal/metrics"
	"alpha-enginev1/internal/model"
)

// analyzer matches analysis.Service.
type analyzer interface {
	Analyze(ctx context.Context, ticker string) (*model.Report, error)
}

// Handler serves the engine's HTTP surface.
type Handler struct {
	svc     analyzer
	hub     *gateway.Hub // optional
	prom    *metrics.Metrics
	timeout time.Duration
	log     *slog.Logger
}

// NewHandler builds the HTTP handler set.
func NewHandler(svc analyzer, hub *gateway.Hub, prom *metrics.Metrics, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{
		svc:     svc,
		hub:     hub,
		prom:    prom,
		timeout: 30 * time.Second,
		log:     log,
	}
}

// Routes registers all endpoints on a fresh mux.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", h.handleRoot)
	mux.HandleFunc("/healthz", h.handleHealth)
	mux.HandleFunc("/analyze", h.handleAnalyze)
	if h.hub != nil {
		mux.HandleFunc("/stream", h.hub.ServeWS)
	}
	if h.prom != nil {
		mux.Handle("/metrics", h.prom.Handler())
	}
	return mux
}

func (h *Handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "alpha engine is running",
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "GET only", http.StatusMethodNotAllowed)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// handleAnalyze runs a full analysis for ?ticker= and returns the report.
func (h *Handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "GET only", http.StatusMethodNotAllowed)
		return
	}
	ticker := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("ticker")))
	if ticker == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "ticker query parameter is required (e.g. RELIANCE.NS)",
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	report, err := h.svc.Analyze(ctx, ticker)
	if err != nil {
		if errors.Is(err, model.ErrNoData) {
			writeJSON(w, http.StatusNotFound, map[string]string{
				"error": "no price data for ticker " + ticker + "; check the symbol (e.g. RELIANCE.NS for NSE stocks)",
			})
			return
		}
		h.log.Error("analysis failed", slog.String("ticker", ticker), slog.Any("err", err))
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, report)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
