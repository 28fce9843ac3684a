// Package score maps an indicator snapshot plus external fundamental and
// sentiment inputs to a composite verdict. Pure and deterministic: same
// inputs, same output; no clock, no randomness, and it never fails.
// Missing inputs degrade to neutral baselines instead of aborting.
package score

import (
	"fmt"
	"math"
	"strings"

	"alpha-enginev1/internal/model"
)

// Sub-score building blocks.
const (
	technicalBase  = 40
	technicalBonus = 20 // each: RSI mid-band, SuperTrend bullish

	fundamentalBase  = 50
	fundamentalBonus = 20 // each: D/E < 1, ROCE > 15%

	weightTechnical   = 0.4
	weightFundamental = 0.4
	weightSentiment   = 0.2

	rsiNeutralLow  = 40
	rsiNeutralHigh = 60

	healthyDebtEquity = 1.0
	strongROCE        = 15.0 // percent
)

// Thresholds is a signal classification table. Cut points are checked
// highest first; the first match wins.
type Thresholds struct {
	StrongBuy int // overall > StrongBuy → STRONG BUY
	Buy       int // overall > Buy → BUY
	Hold      int // overall > Hold → HOLD, else SELL
}

// DefaultThresholds is the canonical cut-point table.
var DefaultThresholds = Thresholds{StrongBuy: 70, Buy: 50, Hold: 40}

// LegacyThresholds preserves the earlier engine's stricter cut points,
// selectable through configuration.
var LegacyThresholds = Thresholds{StrongBuy: 80, Buy: 60, Hold: 40}

// Engine computes composite scores with a fixed threshold table.
type Engine struct {
	thresholds Thresholds
}

// New returns a scoring engine. A zero-value table falls back to the
// canonical defaults.
func New(th Thresholds) *Engine {
	if th == (Thresholds{}) {
		th = DefaultThresholds
	}
	return &Engine{thresholds: th}
}

// Inputs are everything the engine scores. The snapshot comes from the
// aggregator; fundamentals and sentiment are externally supplied scalars.
type Inputs struct {
	Ticker      string
	Technical   model.IndicatorSnapshot
	Fundamental model.FundamentalMetrics
	Sentiment   model.SentimentSummary
}

// Score produces the composite verdict from the given inputs.
func (e *Engine) Score(in Inputs) model.CompositeScore {
	tech := e.technicalScore(in.Technical)
	fund := e.fundamentalScore(in.Fundamental)
	sent := e.sentimentScore(in.Sentiment)

	overall := clamp(int(math.Round(
		weightTechnical*float64(tech) +
			weightFundamental*float64(fund) +
			weightSentiment*float64(sent))))

	signal, verdict := e.classify(overall)
	return model.CompositeScore{
		TechnicalScore:   tech,
		FundamentalScore: fund,
		SentimentScore:   sent,
		OverallScore:     overall,
		Signal:           signal,
		Verdict:          verdict,
		Rationale:        e.rationale(in, verdict),
	}
}

func (e *Engine) technicalScore(snap model.IndicatorSnapshot) int {
	s := technicalBase
	if snap.RSI != nil && *snap.RSI >= rsiNeutralLow && *snap.RSI <= rsiNeutralHigh {
		s += technicalBonus
	}
	if snap.SuperTrendSignal == model.SuperTrendBullish {
		s += technicalBonus
	}
	return clamp(s)
}

func (e *Engine) fundamentalScore(f model.FundamentalMetrics) int {
	s := fundamentalBase
	if f.DebtToEquity != nil && *f.DebtToEquity < healthyDebtEquity {
		s += fundamentalBonus
	}
	if f.ROCE != nil && *f.ROCE > strongROCE {
		s += fundamentalBonus
	}
	return clamp(s)
}

func (e *Engine) sentimentScore(s model.SentimentSummary) int {
	if s.AveragePolarity == nil {
		return 50 // neutral baseline when nothing was scored
	}
	return clamp(int(math.Round((*s.AveragePolarity + 1) * 50)))
}

func (e *Engine) classify(overall int) (model.Signal, model.Verdict) {
	switch {
	case overall > e.thresholds.StrongBuy:
		return model.SignalStrongBuy, model.VerdictTreasure
	case overall > e.thresholds.Buy:
		return model.SignalBuy, model.VerdictTreasure
	case overall > e.thresholds.Hold:
		return model.SignalHold, model.VerdictTrap
	default:
		return model.SignalSell, model.VerdictTrap
	}
}

// momentumLabel summarizes the oscillator reading for the rationale.
func momentumLabel(rsi *float64) string {
	switch {
	case rsi == nil:
		return "Neutral"
	case *rsi > rsiNeutralHigh:
		return "Overbought"
	case *rsi < rsiNeutralLow:
		return "Oversold"
	default:
		return "Bullish"
	}
}

// rationale assembles the templated explanation: classified trend,
// debt-to-equity reading, valuation, sentiment and the verdict.
func (e *Engine) rationale(in Inputs, verdict model.Verdict) string {
	var b strings.Builder

	rsiStr := "N/A"
	if in.Technical.RSI != nil {
		rsiStr = fmt.Sprintf("%.1f", *in.Technical.RSI)
	}
	fmt.Fprintf(&b, "Based on our analysis, %s currently shows a %s technical trend with an RSI of %s. ",
		strings.ToUpper(in.Ticker), momentumLabel(in.Technical.RSI), rsiStr)

	de := in.Fundamental.DebtToEquity
	deStr := "N/A"
	if de != nil {
		deStr = fmt.Sprintf("%.2f", *de)
	}
	fmt.Fprintf(&b, "Fundamentally, the company carries a Debt-to-Equity ratio of %s, ", deStr)
	if de != nil && *de < healthyDebtEquity {
		b.WriteString("indicating a healthy balance sheet. ")
	} else {
		b.WriteString("which warrants caution regarding leverage. ")
	}

	if in.Fundamental.PE != nil {
		fmt.Fprintf(&b, "The P/E ratio stands at %.2f, reflecting current market valuation. ", *in.Fundamental.PE)
	}

	fmt.Fprintf(&b, "Combining these factors with a sentiment score of %d, our verdict is that this stock is a %s.",
		e.sentimentScore(in.Sentiment), verdict)
	return b.String()
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
