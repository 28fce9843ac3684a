package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// Timeframe identifies the sampling interval of a price series.
type Timeframe string

const (
	TFDaily   Timeframe = "daily"
	TFWeekly  Timeframe = "weekly"
	TFMonthly Timeframe = "monthly"
)

// Timeframes lists all supported timeframes in ascending span order.
var Timeframes = []Timeframe{TFDaily, TFWeekly, TFMonthly}

// Valid reports whether tf is one of the supported timeframes.
func (tf Timeframe) Valid() bool {
	switch tf {
	case TFDaily, TFWeekly, TFMonthly:
		return true
	}
	return false
}

// Bar is one OHLCV price bar. Immutable once fetched; every transform
// downstream is value-producing, never in-place.
type Bar struct {
	TS     time.Time `json:"ts"` // bar open time, UTC
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// JSON returns the JSON-encoded bar (ignoring errors for hot-path usage).
func (b *Bar) JSON() []byte {
	out, _ := json.Marshal(b)
	return out
}

// Series is an ordered run of bars for one ticker at one timeframe.
// Timestamps are strictly increasing with no duplicates.
type Series struct {
	Ticker    string    `json:"ticker"`
	Timeframe Timeframe `json:"timeframe"`
	Bars      []Bar     `json:"bars"`
}

// Len returns the number of bars.
func (s *Series) Len() int { return len(s.Bars) }

// Empty reports whether the series holds no bars at all.
func (s *Series) Empty() bool { return s == nil || len(s.Bars) == 0 }

// Closes extracts the close column in bar order.
func (s *Series) Closes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Close
	}
	return out
}

// Highs extracts the high column in bar order.
func (s *Series) Highs() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.High
	}
	return out
}

// Lows extracts the low column in bar order.
func (s *Series) Lows() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Low
	}
	return out
}

// LastClose returns the newest close, or 0 if the series is empty.
func (s *Series) LastClose() float64 {
	if s.Empty() {
		return 0
	}
	return s.Bars[len(s.Bars)-1].Close
}

// Validate checks the series ordering invariant: strictly increasing
// timestamps, no duplicates.
func (s *Series) Validate() error {
	if !s.Timeframe.Valid() {
		return fmt.Errorf("series %s: unknown timeframe %q", s.Ticker, s.Timeframe)
	}
	for i := 1; i < len(s.Bars); i++ {
		if !s.Bars[i].TS.After(s.Bars[i-1].TS) {
			return fmt.Errorf("series %s/%s: bar %d ts %s not after bar %d ts %s",
				s.Ticker, s.Timeframe, i, s.Bars[i].TS.Format(time.RFC3339),
				i-1, s.Bars[i-1].TS.Format(time.RFC3339))
		}
	}
	return nil
}
