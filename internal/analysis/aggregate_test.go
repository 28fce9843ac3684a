package analysis

import (
	"errors"
	"testing"
	"time"

	"alpha-enginev1/internal/model"
)

// rampSeries builds n daily bars closing at base, base+1, ... with a
// fixed 2-point high/low band around each close.
func rampSeries(ticker string, tf model.Timeframe, n int, base float64) *model.Series {
	s := &model.Series{Ticker: ticker, Timeframe: tf}
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		px := base + float64(i)
		s.Bars = append(s.Bars, model.Bar{
			TS:     start.AddDate(0, 0, i),
			Open:   px,
			High:   px + 1,
			Low:    px - 1,
			Close:  px,
			Volume: 100,
		})
	}
	return s
}

func TestAggregateEmptyDaily(t *testing.T) {
	_, _, err := Aggregate("TEST", map[model.Timeframe]*model.Series{})
	if !errors.Is(err, model.ErrNoData) {
		t.Fatalf("err = %v, want ErrNoData", err)
	}
}

func TestAggregateFullSnapshot(t *testing.T) {
	byTF := map[model.Timeframe]*model.Series{
		model.TFDaily:   rampSeries("TEST", model.TFDaily, 250, 100),
		model.TFWeekly:  rampSeries("TEST", model.TFWeekly, 60, 100),
		model.TFMonthly: rampSeries("TEST", model.TFMonthly, 30, 100),
	}

	snap, view, err := Aggregate("TEST", byTF)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}

	if snap.Ticker != "TEST" {
		t.Errorf("ticker = %q", snap.Ticker)
	}
	if snap.LastClose == nil || *snap.LastClose != 349 {
		t.Errorf("last close = %v, want 349", snap.LastClose)
	}
	// A pure uptrend has zero mean loss, so RSI pegs at 100.
	if snap.RSI == nil || *snap.RSI != 100 {
		t.Errorf("rsi = %v, want 100", snap.RSI)
	}
	// SMA20 over closes 330..349 is 339.5.
	if snap.SMA20 == nil || *snap.SMA20 != 339.5 {
		t.Errorf("sma20 = %v, want 339.5", snap.SMA20)
	}
	if snap.SMA200 == nil {
		t.Error("sma200 absent with 250 bars")
	}
	if snap.SMATrend != model.SMATrendBullish {
		t.Errorf("sma trend = %q", snap.SMATrend)
	}
	if snap.MACDSignal != model.MACDBuy {
		t.Errorf("macd = %q", snap.MACDSignal)
	}
	if snap.BBUpper == nil || snap.BBLower == nil {
		t.Fatal("bollinger bands absent")
	}
	// Trailing 30-day low of the lows column: close 320 band low is 319.
	if snap.Support == nil || *snap.Support != 319 {
		t.Errorf("support = %v, want 319", snap.Support)
	}
	if snap.Resistance == nil || *snap.Resistance != 350 {
		t.Errorf("resistance = %v, want 350", snap.Resistance)
	}
	// Every true range is 2: the bar spans close±1 and the gap from the
	// previous close never exceeds the bar.
	if snap.ATR == nil || *snap.ATR != 2 {
		t.Errorf("atr = %v, want 2", snap.ATR)
	}
	if snap.SuperTrendSignal != model.SuperTrendBullish {
		t.Errorf("supertrend signal = %q", snap.SuperTrendSignal)
	}

	// Close/SMA-20 ratios: daily 349/339.5, weekly 159/149.5, monthly
	// 129/119.5. Only the shorter series clear the 1.05 band.
	want := map[model.Timeframe]string{
		model.TFDaily:   model.TrendBullish,
		model.TFWeekly:  model.TrendStrongBullish,
		model.TFMonthly: model.TrendStrongBullish,
	}
	for _, tf := range model.Timeframes {
		if view[tf] != want[tf] {
			t.Errorf("view[%s] = %q, want %q", tf, view[tf], want[tf])
		}
	}
	if snap.Trend != view[model.TFDaily] {
		t.Errorf("snapshot trend %q != daily view %q", snap.Trend, view[model.TFDaily])
	}
}

func TestAggregateShortDailyDegrades(t *testing.T) {
	byTF := map[model.Timeframe]*model.Series{
		model.TFDaily: rampSeries("TEST", model.TFDaily, 10, 100),
	}

	snap, view, err := Aggregate("TEST", byTF)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if snap.RSI != nil {
		t.Errorf("rsi = %v with 10 bars, want absent", snap.RSI)
	}
	if snap.SMA20 != nil || snap.BBUpper != nil {
		t.Error("20-bar indicators present with 10 bars")
	}
	if snap.MACDSignal != "" {
		t.Errorf("macd = %q with 10 bars, want empty", snap.MACDSignal)
	}
	if view[model.TFDaily] != model.TrendNA {
		t.Errorf("daily trend = %q, want %q", view[model.TFDaily], model.TrendNA)
	}
	if view[model.TFWeekly] != model.TrendNA {
		t.Errorf("missing weekly trend = %q, want %q", view[model.TFWeekly], model.TrendNA)
	}
}

func TestRiskFrom(t *testing.T) {
	daily := rampSeries("TEST", model.TFDaily, 300, 100)
	de := 2.5
	beta := 1.2

	risk := RiskFrom(daily, model.FundamentalMetrics{
		DebtToEquity: &de,
		Beta:         &beta,
	})

	if !risk.HighDebt {
		t.Error("high debt flag not set for D/E 2.5")
	}
	if risk.Beta == nil || *risk.Beta != 1.2 {
		t.Errorf("beta = %v", risk.Beta)
	}

	// Trailing 252 bars run from close 148 to price 399; band extrema are
	// high 400 and low 147. Distances: (400-399)/400 = 0.25% and
	// (399-147)/147 = 171.43% after rounding.
	if risk.DistFrom52WHigh == nil || *risk.DistFrom52WHigh != 0.25 {
		t.Errorf("dist from high = %v, want 0.25", risk.DistFrom52WHigh)
	}
	if risk.DistFrom52WLow == nil || *risk.DistFrom52WLow != 171.43 {
		t.Errorf("dist from low = %v, want 171.43", risk.DistFrom52WLow)
	}
}

func TestRiskFromEmptySeries(t *testing.T) {
	risk := RiskFrom(nil, model.FundamentalMetrics{})
	if risk.HighDebt || risk.DistFrom52WHigh != nil || risk.DistFrom52WLow != nil {
		t.Errorf("unexpected risk fields: %+v", risk)
	}
}
