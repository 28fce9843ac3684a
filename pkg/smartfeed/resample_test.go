package smartfeed

import (
	"testing"
	"time"

	"alpha-enginev1/internal/indicator"
	"alpha-enginev1/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResampleWeekly(t *testing.T) {
	// Mon 2024-01-01 through Wed 2024-01-10: two full ISO weeks plus the
	// start of a third.
	daily := &model.Series{Ticker: "TEST", Timeframe: model.TFDaily}
	for i := 0; i < 8; i++ {
		ts := day(2024, time.January, 1+i)
		if ts.Weekday() == time.Saturday || ts.Weekday() == time.Sunday {
			continue
		}
		px := 100.0 + float64(i)
		daily.Bars = append(daily.Bars, model.Bar{
			TS: ts, Open: px, High: px + 2, Low: px - 2, Close: px + 1, Volume: 10,
		})
	}

	weekly := Resample(daily, model.TFWeekly)
	if weekly.Timeframe != model.TFWeekly {
		t.Fatalf("timeframe = %q", weekly.Timeframe)
	}
	if len(weekly.Bars) != 2 {
		t.Fatalf("weekly bars = %d, want 2", len(weekly.Bars))
	}

	w1 := weekly.Bars[0]
	if !w1.TS.Equal(day(2024, time.January, 1)) {
		t.Errorf("week 1 ts = %v", w1.TS)
	}
	if w1.Open != 100 {
		t.Errorf("week 1 open = %v, want 100", w1.Open)
	}
	if w1.Close != 105 { // Friday Jan 5, px 104, close 105
		t.Errorf("week 1 close = %v, want 105", w1.Close)
	}
	if w1.High != 106 || w1.Low != 98 {
		t.Errorf("week 1 high/low = %v/%v, want 106/98", w1.High, w1.Low)
	}
	if w1.Volume != 50 {
		t.Errorf("week 1 volume = %d, want 50", w1.Volume)
	}
}

func TestResampleMonthly(t *testing.T) {
	daily := &model.Series{Ticker: "TEST", Timeframe: model.TFDaily}
	dates := []time.Time{
		day(2024, time.January, 30),
		day(2024, time.January, 31),
		day(2024, time.February, 1),
	}
	for i, ts := range dates {
		px := 50.0 + float64(i)
		daily.Bars = append(daily.Bars, model.Bar{TS: ts, Open: px, High: px, Low: px, Close: px, Volume: 1})
	}

	monthly := Resample(daily, model.TFMonthly)
	if len(monthly.Bars) != 2 {
		t.Fatalf("monthly bars = %d, want 2", len(monthly.Bars))
	}
	if monthly.Bars[0].Close != 51 {
		t.Errorf("jan close = %v, want 51", monthly.Bars[0].Close)
	}
	if monthly.Bars[1].Open != 52 {
		t.Errorf("feb open = %v, want 52", monthly.Bars[1].Open)
	}
}

// The fetch horizon must leave the monthly classifier enough bars: 20
// resampled months, the longest lookback downstream.
func TestHistoryWindowCoversMonthlyLookback(t *testing.T) {
	end := day(2026, time.August, 28)
	daily := &model.Series{Ticker: "TEST", Timeframe: model.TFDaily}
	for d := end.AddDate(0, 0, -historyDays); !d.After(end); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		daily.Bars = append(daily.Bars, model.Bar{TS: d, Open: 100, High: 101, Low: 99, Close: 100, Volume: 1})
	}

	monthly := Resample(daily, model.TFMonthly)
	if len(monthly.Bars) < 20 {
		t.Fatalf("monthly bars = %d from %d-day horizon, want >= 20", len(monthly.Bars), historyDays)
	}
	if got := indicator.ClassifyTrend(monthly.Closes()); got == model.TrendNA {
		t.Fatalf("monthly trend = %q with %d bars", got, len(monthly.Bars))
	}
}

func TestResampleEmpty(t *testing.T) {
	out := Resample(&model.Series{Ticker: "X", Timeframe: model.TFDaily}, model.TFWeekly)
	if !out.Empty() {
		t.Fatalf("expected empty resample")
	}
}
