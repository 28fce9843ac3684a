package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"alpha-enginev1/internal/model"
)

type stubAnalyzer struct {
	report *model.Report
	err    error
}

func (s *stubAnalyzer) Analyze(ctx context.Context, ticker string) (*model.Report, error) {
	if s.err != nil {
		return nil, s.err
	}
	r := *s.report
	r.Ticker = ticker
	return &r, nil
}

func TestAnalyze_OK(t *testing.T) {
	stub := &stubAnalyzer{report: &model.Report{
		Score: model.CompositeScore{OverallScore: 56, Signal: model.SignalBuy, Verdict: model.VerdictTreasure},
	}}
	h := NewHandler(stub, nil, nil, nil)

	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/analyze?ticker=reliance.ns", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	var got model.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Ticker != "RELIANCE.NS" {
		t.Errorf("ticker should be upper-cased: got %q", got.Ticker)
	}
	if got.Score.Signal != model.SignalBuy {
		t.Errorf("signal: got %q", got.Score.Signal)
	}
}

func TestAnalyze_MissingTicker(t *testing.T) {
	h := NewHandler(&stubAnalyzer{report: &model.Report{}}, nil, nil, nil)

	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/analyze", nil))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
}

func TestAnalyze_NoDataIs404(t *testing.T) {
	h := NewHandler(&stubAnalyzer{err: model.ErrNoData}, nil, nil, nil)

	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/analyze?ticker=NOPE", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rec.Code)
	}
}

func TestAnalyze_ProviderFailureIs502(t *testing.T) {
	h := NewHandler(&stubAnalyzer{err: errors.New("upstream timeout")}, nil, nil, nil)

	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/analyze?ticker=X", nil))

	if rec.Code != http.StatusBadGateway {
		t.Errorf("status: got %d, want 502", rec.Code)
	}
}

func TestAnalyze_PostRejected(t *testing.T) {
	h := NewHandler(&stubAnalyzer{report: &model.Report{}}, nil, nil, nil)

	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/analyze?ticker=X", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status: got %d, want 405", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	h := NewHandler(&stubAnalyzer{report: &model.Report{}}, nil, nil, nil)

	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Errorf("healthz: %d %q", rec.Code, rec.Body.String())
	}
}

func TestHealthz_PostRejected(t *testing.T) {
	h := NewHandler(&stubAnalyzer{report: &model.Report{}}, nil, nil, nil)

	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/healthz", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status: got %d, want 405", rec.Code)
	}
}
