package model

import "encoding/json"

// Signal is the discrete trading signal from the composite score.
type Signal string

const (
	SignalStrongBuy Signal = "STRONG BUY"
	SignalBuy       Signal = "BUY"
	SignalHold      Signal = "HOLD"
	SignalSell      Signal = "SELL"
)

// Verdict is the binary treasure-or-trap call.
type Verdict string

const (
	VerdictTreasure Verdict = "TREASURE"
	VerdictTrap     Verdict = "TRAP"
)

// CompositeScore is the scoring engine's output. All sub-scores are
// integers on a 0–100 scale. Derived, never persisted; recomputed from
// fresh inputs on every request.
type CompositeScore struct {
	TechnicalScore   int     `json:"technical_score"`
	FundamentalScore int     `json:"fundamental_score"`
	SentimentScore   int     `json:"sentiment_score"`
	OverallScore     int     `json:"overall_score"`
	Signal           Signal  `json:"signal"`
	Verdict          Verdict `json:"verdict"`
	Rationale        string  `json:"rationale"`
}

// FundamentalMetrics carries externally supplied fundamental ratios.
// DebtToEquity is a plain ratio (1.0 = debt equals equity); ROCE and ROE
// are percentages (15 = 15%).
type FundamentalMetrics struct {
	PE            *float64 `json:"pe,omitempty"`
	PEG           *float64 `json:"peg_ratio,omitempty"`
	PriceToBook   *float64 `json:"price_to_book,omitempty"`
	DebtToEquity  *float64 `json:"debt_equity,omitempty"`
	ROE           *float64 `json:"roe,omitempty"`
	ROCE          *float64 `json:"roce,omitempty"`
	DividendYield *float64 `json:"dividend_yield,omitempty"`
	MarketCap     *float64 `json:"market_cap,omitempty"`
	Beta          *float64 `json:"beta,omitempty"`
	Price         *float64 `json:"price,omitempty"`
}

// Headline is one scored news headline. Polarity is supplied by an
// external scorer, in [-1, 1].
type Headline struct {
	Text     string  `json:"headline"`
	Polarity float64 `json:"sentiment_score"`
}

// SentimentSummary carries externally computed headline sentiment.
// AveragePolarity is nil when no headlines were scored.
type SentimentSummary struct {
	Headlines       []Headline `json:"headlines,omitempty"`
	AveragePolarity *float64   `json:"average_polarity,omitempty"`
	Label           string     `json:"label,omitempty"` // Bullish / Neutral / Bearish
}

// RiskReadout summarizes simple risk figures derived from the daily
// series plus externally supplied beta.
type RiskReadout struct {
	Beta            *float64 `json:"beta,omitempty"`
	DistFrom52WHigh *float64 `json:"dist_52w_high_pct,omitempty"` // percent below the high
	DistFrom52WLow  *float64 `json:"dist_52w_low_pct,omitempty"`  // percent above the low
	HighDebt        bool     `json:"high_debt_flag"`
}

// Report is the full analysis response for one ticker: indicators,
// multi-timeframe view, composite score and passthrough inputs.
type Report struct {
	Ticker      string             `json:"ticker"`
	Price       *float64           `json:"price,omitempty"`
	Score       CompositeScore     `json:"score"`
	Technical   IndicatorSnapshot  `json:"technical"`
	Timeframes  MultiTimeframeView `json:"timeframes"`
	Fundamental FundamentalMetrics `json:"fundamental"`
	Sentiment   SentimentSummary   `json:"sentiment"`
	Risk        RiskReadout        `json:"risk"`
	GeneratedAt int64              `json:"generated_at"` // unix seconds
}

// JSON returns the JSON-encoded report.
func (r *Report) JSON() []byte {
	out, _ := json.Marshal(r)
	return out
}
