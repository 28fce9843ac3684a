package sqlite

import (
	"testing"
	"time"

	"alpha-enginev1/internal/model"
)

func testSeries(ticker string, tf model.Timeframe, n int) *model.Series {
	s := &model.Series{Ticker: ticker, Timeframe: tf}
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		c := 100 + float64(i)
		s.Bars = append(s.Bars, model.Bar{
			TS: base.AddDate(0, 0, i), Open: c - 1, High: c + 2, Low: c - 2, Close: c, Volume: 1000,
		})
	}
	return s
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(t.TempDir()+"/bars.db", nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	st := openTestStore(t)

	want := testSeries("RELIANCE.NS", model.TFDaily, 30)
	if err := st.SaveSeries(want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := st.LoadSeries("RELIANCE.NS", model.TFDaily)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Len() != want.Len() {
		t.Fatalf("len: got %d, want %d", got.Len(), want.Len())
	}
	for i := range want.Bars {
		if !got.Bars[i].TS.Equal(want.Bars[i].TS) || got.Bars[i].Close != want.Bars[i].Close {
			t.Fatalf("bar %d mismatch: got %+v, want %+v", i, got.Bars[i], want.Bars[i])
		}
	}
	if err := got.Validate(); err != nil {
		t.Errorf("loaded series fails validation: %v", err)
	}
}

func TestStore_MissReturnsEmptySeries(t *testing.T) {
	st := openTestStore(t)

	got, err := st.LoadSeries("UNKNOWN", model.TFWeekly)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !got.Empty() {
		t.Errorf("expected empty series on miss, got %d bars", got.Len())
	}
}

func TestStore_UpsertReplacesBars(t *testing.T) {
	st := openTestStore(t)

	s := testSeries("TCS.NS", model.TFDaily, 5)
	if err := st.SaveSeries(s); err != nil {
		t.Fatalf("save: %v", err)
	}

	s.Bars[4].Close = 999
	if err := st.SaveSeries(s); err != nil {
		t.Fatalf("resave: %v", err)
	}

	got, err := st.LoadSeries("TCS.NS", model.TFDaily)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Len() != 5 {
		t.Fatalf("upsert duplicated rows: got %d bars, want 5", got.Len())
	}
	if got.Bars[4].Close != 999 {
		t.Errorf("upsert did not replace close: got %f", got.Bars[4].Close)
	}
}

func TestStore_TimeframesAreIsolated(t *testing.T) {
	st := openTestStore(t)

	if err := st.SaveSeries(testSeries("INFY.NS", model.TFDaily, 10)); err != nil {
		t.Fatalf("save daily: %v", err)
	}
	if err := st.SaveSeries(testSeries("INFY.NS", model.TFWeekly, 4)); err != nil {
		t.Fatalf("save weekly: %v", err)
	}

	daily, _ := st.LoadSeries("INFY.NS", model.TFDaily)
	weekly, _ := st.LoadSeries("INFY.NS", model.TFWeekly)
	if daily.Len() != 10 || weekly.Len() != 4 {
		t.Errorf("timeframe bleed: daily=%d weekly=%d", daily.Len(), weekly.Len())
	}
}
