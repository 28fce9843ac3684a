// Package analysis orchestrates the indicator pipeline: price series in,
// indicator snapshot + multi-timeframe view + composite score out.
package analysis

import (
	"math"

	"alpha-enginev1/internal/indicator"
	"alpha-enginev1/internal/model"
)

// tradingDaysPerYear approximates one year of daily bars for the
// 52-week extrema readout.
const tradingDaysPerYear = 252

// Aggregate computes the full indicator snapshot for one ticker.
//
// The daily series drives everything except the per-timeframe trend
// labels, which each timeframe derives independently from its own bars.
// An empty daily series is the one terminal failure (model.ErrNoData);
// any narrower shortfall leaves the affected field absent and keeps
// going.
func Aggregate(ticker string, byTF map[model.Timeframe]*model.Series) (model.IndicatorSnapshot, model.MultiTimeframeView, error) {
	daily := byTF[model.TFDaily]
	if daily.Empty() {
		return model.IndicatorSnapshot{}, nil, model.ErrNoData
	}

	closes := daily.Closes()
	highs := daily.Highs()
	lows := daily.Lows()

	snap := model.IndicatorSnapshot{
		Ticker:    ticker,
		LastClose: model.Float(daily.LastClose()),
	}

	if rsi, ok := indicator.RSI(closes, indicator.RSIPeriod); ok {
		snap.RSI = model.Float(rsi)
	}

	if v, ok := indicator.SMA(closes, indicator.SMAShort); ok {
		snap.SMA20 = model.Float(v)
	}
	if v, ok := indicator.SMA(closes, indicator.SMAMid); ok {
		snap.SMA50 = model.Float(v)
	}
	if v, ok := indicator.SMA(closes, indicator.SMALong); ok {
		snap.SMA200 = model.Float(v)
	}
	snap.SMATrend = indicator.SMATrend(closes)
	snap.MACDSignal = indicator.MACDLabel(closes)

	if b, ok := indicator.Bollinger(closes); ok {
		snap.BBUpper = model.Float(b.Upper)
		snap.BBMiddle = model.Float(b.Middle)
		snap.BBLower = model.Float(b.Lower)
		snap.BBPosition = b.Position(daily.LastClose())
	}

	if s, r, ok := indicator.SupportResistance(highs, lows, indicator.SRWindowShort); ok {
		snap.Support = model.Float(s)
		snap.Resistance = model.Float(r)
	}
	if s, r, ok := indicator.SupportResistance(highs, lows, indicator.SRWindowLong); ok {
		snap.Support6M = model.Float(s)
		snap.Resistance6M = model.Float(r)
	}

	if atr, ok := indicator.LatestATR(highs, lows, closes); ok {
		snap.ATR = model.Float(atr)
	}
	if st, ok := indicator.SuperTrend(highs, lows, closes); ok {
		snap.SuperTrend = model.Float(st.Value)
		snap.SuperTrendSignal = st.Signal
	}

	view := make(model.MultiTimeframeView, len(model.Timeframes))
	for _, tf := range model.Timeframes {
		s := byTF[tf]
		if s.Empty() {
			view[tf] = model.TrendNA
			continue
		}
		view[tf] = indicator.ClassifyTrend(s.Closes())
	}
	snap.Trend = view[model.TFDaily]

	return snap, view, nil
}

// RiskFrom derives the simple risk readout: distance from the trailing
// 52-week high/low and the high-debt flag (D/E above 2). Beta passes
// through from the fundamentals source.
func RiskFrom(daily *model.Series, f model.FundamentalMetrics) model.RiskReadout {
	out := model.RiskReadout{Beta: f.Beta}
	if f.DebtToEquity != nil && *f.DebtToEquity > 2 {
		out.HighDebt = true
	}
	if daily.Empty() {
		return out
	}

	bars := daily.Bars
	if len(bars) > tradingDaysPerYear {
		bars = bars[len(bars)-tradingDaysPerYear:]
	}
	high, low := bars[0].High, bars[0].Low
	for _, b := range bars[1:] {
		if b.High > high {
			high = b.High
		}
		if b.Low < low {
			low = b.Low
		}
	}

	price := daily.LastClose()
	if high > 0 {
		out.DistFrom52WHigh = model.Float(round2((high - price) / high * 100))
	}
	if low > 0 {
		out.DistFrom52WLow = model.Float(round2((price - low) / low * 100))
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
