package model

import "encoding/json"

// Trend labels produced by the multi-timeframe classifier.
const (
	TrendStrongBullish = "Strong Bullish"
	TrendBullish       = "Bullish"
	TrendBearish       = "Bearish"
	TrendStrongBearish = "Strong Bearish"
	TrendNA            = "N/A"
)

// Labels for the remaining indicator classifications.
const (
	SMATrendBullish = "Bullish"
	SMATrendBearish = "Bearish"

	MACDBuy  = "Buy"
	MACDSell = "Sell"

	BBOverbought = "Overbought"
	BBOversold   = "Oversold"
	BBNeutral    = "Neutral"

	SuperTrendBullish = "Bullish"
	SuperTrendBearish = "Bearish"
)

// IndicatorSnapshot bundles every computed indicator for one daily series
// at one point in time. Numeric fields are pointers: nil means the
// indicator lacked history or hit undefined arithmetic. Nothing in here is
// ever NaN.
type IndicatorSnapshot struct {
	Ticker    string   `json:"ticker"`
	LastClose *float64 `json:"last_close,omitempty"`

	RSI *float64 `json:"rsi,omitempty"` // 0–100 scale

	SMA20    *float64 `json:"sma_20,omitempty"`
	SMA50    *float64 `json:"sma_50,omitempty"`
	SMA200   *float64 `json:"sma_200,omitempty"`
	SMATrend string   `json:"sma_trend,omitempty"` // Bullish / Bearish

	MACDSignal string `json:"macd_signal,omitempty"` // Buy / Sell

	BBUpper    *float64 `json:"bb_upper,omitempty"`
	BBMiddle   *float64 `json:"bb_middle,omitempty"`
	BBLower    *float64 `json:"bb_lower,omitempty"`
	BBPosition string   `json:"bb_position,omitempty"` // Overbought / Oversold / Neutral

	Support      *float64 `json:"support,omitempty"`       // rolling low, 30 bars
	Resistance   *float64 `json:"resistance,omitempty"`    // rolling high, 30 bars
	Support6M    *float64 `json:"support_6m,omitempty"`    // rolling low, 126 bars
	Resistance6M *float64 `json:"resistance_6m,omitempty"` // rolling high, 126 bars

	ATR              *float64 `json:"atr,omitempty"`
	SuperTrend       *float64 `json:"supertrend,omitempty"` // active band, 2 decimals
	SuperTrendSignal string   `json:"supertrend_signal,omitempty"`

	Trend string `json:"trend,omitempty"` // daily multi-timeframe label
}

// JSON returns the JSON-encoded snapshot.
func (s *IndicatorSnapshot) JSON() []byte {
	out, _ := json.Marshal(s)
	return out
}

// MultiTimeframeView maps each timeframe to its independently classified
// trend label.
type MultiTimeframeView map[Timeframe]string

// Float returns a pointer to v, for filling optional snapshot fields.
func Float(v float64) *float64 { return &v }
