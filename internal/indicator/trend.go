package indicator

import (
	"alpha-enginev1/internal/model"
	"alpha-enginev1/internal/series"
)

// Moving-average windows and MACD spans.
const (
	SMAShort = 20
	SMAMid   = 50
	SMALong  = 200

	MACDFast   = 12
	MACDSlow   = 26
	MACDSignal = 9
)

// SMA returns the latest simple moving average over the given window,
// ok=false when history is short.
func SMA(closes []float64, window int) (float64, bool) {
	return series.Last(series.RollingMean(closes, window))
}

// SMATrend labels the SMA-50 vs SMA-200 cross: Bullish when the mid
// average sits above the long one. Empty when either lacks history.
func SMATrend(closes []float64) string {
	mid, okM := SMA(closes, SMAMid)
	long, okL := SMA(closes, SMALong)
	if !okM || !okL {
		return ""
	}
	if mid > long {
		return model.SMATrendBullish
	}
	return model.SMATrendBearish
}

// MACDLabel compares the MACD line (EMA12−EMA26) against its EMA9 signal
// line at the latest sample: Buy when the line is above. The EMA
// recursion is defined from the first sample, but the label is withheld
// until the slow span has real history behind it.
func MACDLabel(closes []float64) string {
	if len(closes) < MACDSlow {
		return ""
	}
	fast := series.EMA(closes, MACDFast)
	slow := series.EMA(closes, MACDSlow)
	line := make([]float64, len(closes))
	for i := range closes {
		line[i] = fast[i] - slow[i]
	}
	signal := series.EMA(line, MACDSignal)

	l, _ := series.Last(line)
	s, _ := series.Last(signal)
	if l > s {
		return model.MACDBuy
	}
	return model.MACDSell
}

// ClassifyTrend is the multi-timeframe trend classifier, applied to one
// timeframe's own series: latest close relative to that series' SMA-20.
//
//	ratio > 1.05 → Strong Bullish
//	ratio > 1.00 → Bullish
//	ratio < 0.95 → Strong Bearish
//	otherwise    → Bearish
//
// The mid-band is deliberately asymmetric (no plain-Bearish band below
// 1.00 mirroring the Bullish one); current behavior is pinned by tests.
// Fewer than 20 samples → N/A.
func ClassifyTrend(closes []float64) string {
	sma, ok := SMA(closes, SMAShort)
	if !ok || sma == 0 || len(closes) == 0 {
		return model.TrendNA
	}
	ratio := closes[len(closes)-1] / sma
	switch {
	case ratio > 1.05:
		return model.TrendStrongBullish
	case ratio > 1.00:
		return model.TrendBullish
	case ratio < 0.95:
		return model.TrendStrongBearish
	default:
		return model.TrendBearish
	}
}
