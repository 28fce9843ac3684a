// Package indicator computes technical indicators from batch price
// history. Every function recomputes from the full series it is given;
// undefined results are reported through ok=false returns, never NaN.
package indicator

import (
	"math"

	"alpha-enginev1/internal/series"
)

// RSIPeriod is the fixed oscillator lookback.
const RSIPeriod = 14

// RSI computes the 14-period momentum oscillator from a close series
// using rolling-mean gains and losses. Needs period+1 closes (one extra
// for the first delta); returns ok=false otherwise.
//
// A zero mean-loss makes relative strength infinite; that resolves to
// exactly 100 rather than NaN.
func RSI(closes []float64, period int) (float64, bool) {
	if period <= 0 || len(closes) < period+1 {
		return 0, false
	}

	deltas := series.Diff(closes)
	gains := make([]float64, len(deltas))
	losses := make([]float64, len(deltas))
	for i := 1; i < len(deltas); i++ {
		if deltas[i] > 0 {
			gains[i] = deltas[i]
		} else {
			losses[i] = -deltas[i]
		}
	}
	// deltas[0] is undefined; the rolling window must not include it.
	meanGain := series.RollingMean(gains[1:], period)
	meanLoss := series.RollingMean(losses[1:], period)

	mg, okG := series.Last(meanGain)
	ml, okL := series.Last(meanLoss)
	if !okG || !okL {
		return 0, false
	}
	if ml == 0 {
		return 100, true
	}
	rs := mg / ml
	v := 100 - 100/(1+rs)
	if math.IsNaN(v) {
		return 0, false
	}
	return v, true
}
