package indicator

import (
	"alpha-enginev1/internal/model"
	"alpha-enginev1/internal/series"
)

// Bollinger parameters and support/resistance windows.
const (
	BBWindow = 20
	BBWidth  = 2.0

	SRWindowShort = 30  // short-horizon support/resistance
	SRWindowLong  = 126 // ≈ 6 trading months
)

// Bands holds the latest Bollinger band values.
type Bands struct {
	Upper  float64
	Middle float64
	Lower  float64
}

// Bollinger computes 20-period bands at 2 sample standard deviations
// around the SMA-20 of close. ok=false under 20 closes.
func Bollinger(closes []float64) (Bands, bool) {
	mid, okM := series.Last(series.RollingMean(closes, BBWindow))
	sd, okS := series.Last(series.RollingStd(closes, BBWindow))
	if !okM || !okS {
		return Bands{}, false
	}
	return Bands{
		Upper:  mid + BBWidth*sd,
		Middle: mid,
		Lower:  mid - BBWidth*sd,
	}, true
}

// Position classifies the latest close against the bands.
func (b Bands) Position(lastClose float64) string {
	switch {
	case lastClose > b.Upper:
		return model.BBOverbought
	case lastClose < b.Lower:
		return model.BBOversold
	default:
		return model.BBNeutral
	}
}

// SupportResistance returns the rolling low-of-lows and high-of-highs
// over a trailing window; simple extrema, not clustered zones.
func SupportResistance(highs, lows []float64, window int) (support, resistance float64, ok bool) {
	s, okS := series.Last(series.RollingMin(lows, window))
	r, okR := series.Last(series.RollingMax(highs, window))
	if !okS || !okR {
		return 0, 0, false
	}
	return s, r, true
}
