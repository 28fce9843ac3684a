package indicator

import (
	"math"

	"alpha-enginev1/internal/model"
	"alpha-enginev1/internal/series"
)

// ATR / SuperTrend parameters.
const (
	ATRPeriod            = 14
	SuperTrendPeriod     = 10
	SuperTrendMultiplier = 3.0
)

// TrueRange computes the true-range series:
// max(high-low, |high-prevClose|, |low-prevClose|). Index 0 falls back to
// high-low, having no previous close.
func TrueRange(highs, lows, closes []float64) []float64 {
	out := make([]float64, len(closes))
	for i := range closes {
		tr := highs[i] - lows[i]
		if i > 0 {
			if hc := math.Abs(highs[i] - closes[i-1]); hc > tr {
				tr = hc
			}
			if lc := math.Abs(lows[i] - closes[i-1]); lc > tr {
				tr = lc
			}
		}
		out[i] = tr
	}
	return out
}

// ATR is the rolling mean of true range over the given period, aligned
// with the input (NaN warm-up gap).
func ATR(highs, lows, closes []float64, period int) []float64 {
	return series.RollingMean(TrueRange(highs, lows, closes), period)
}

// LatestATR returns the newest 14-period ATR, ok=false on short history.
func LatestATR(highs, lows, closes []float64) (float64, bool) {
	return series.Last(ATR(highs, lows, closes, ATRPeriod))
}

// trendDir tags the SuperTrend state.
type trendDir int

const (
	trendUp trendDir = iota
	trendDown
)

// stState is the fold state threaded across bars: the direction plus the
// two ratcheted bands it depends on. Each step needs the previous step's
// ratcheted values, not the previous raw bands; recomputing without this
// carry diverges bar to bar.
type stState struct {
	dir   trendDir
	upper float64
	lower float64
}

// stStep advances the recurrence by one bar.
//
// Direction: a close beyond the prior final band flips (or continues)
// the trend; otherwise the prior direction holds. Bands: while the
// direction persists, the band on the active side only ratchets toward
// price; the lower band never drops in an uptrend, the upper band never
// rises in a downtrend. An actual flip resets both bands to raw.
func stStep(prev stState, close, rawUpper, rawLower float64) stState {
	dir := prev.dir
	if close > prev.upper {
		dir = trendUp
	} else if close < prev.lower {
		dir = trendDown
	}

	next := stState{dir: dir, upper: rawUpper, lower: rawLower}
	if dir == prev.dir {
		if dir == trendUp && rawLower < prev.lower {
			next.lower = prev.lower
		}
		if dir == trendDown && rawUpper > prev.upper {
			next.upper = prev.upper
		}
	}
	return next
}

// SuperTrendResult is the latest value of the trend-following recurrence.
type SuperTrendResult struct {
	Value  float64 // active band (lower when up, upper when down), 2 decimals
	Signal string  // Bullish / Bearish
}

// SuperTrend runs the (10, 3) band-ratchet recurrence left-to-right over
// the whole window and returns the final state. The fold starts at the
// first bar with a defined ATR; ok=false when no bar qualifies.
func SuperTrend(highs, lows, closes []float64) (SuperTrendResult, bool) {
	atr := ATR(highs, lows, closes, SuperTrendPeriod)

	start := -1
	for i, v := range atr {
		if !math.IsNaN(v) {
			start = i
			break
		}
	}
	if start == -1 {
		return SuperTrendResult{}, false
	}

	rawBands := func(i int) (upper, lower float64) {
		mid := (highs[i] + lows[i]) / 2
		return mid + SuperTrendMultiplier*atr[i], mid - SuperTrendMultiplier*atr[i]
	}

	upper, lower := rawBands(start)
	st := stState{dir: trendDown, upper: upper, lower: lower}
	if closes[start] >= (highs[start]+lows[start])/2 {
		st.dir = trendUp
	}

	for i := start + 1; i < len(closes); i++ {
		rawUpper, rawLower := rawBands(i)
		st = stStep(st, closes[i], rawUpper, rawLower)
	}

	res := SuperTrendResult{Signal: model.SuperTrendBearish}
	if st.dir == trendUp {
		res.Signal = model.SuperTrendBullish
		res.Value = round2(st.lower)
	} else {
		res.Value = round2(st.upper)
	}
	return res, true
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
