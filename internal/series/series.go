// Package series provides batch rolling and exponential statistics over
// an ordered numeric sequence. Each transform returns a slice aligned
// with its input; indices inside the warm-up gap carry NaN. NaN never
// leaves the indicator layer; callers convert the gap to absent fields.
package series

import "math"

// nanPrefix fills out[0:n] with NaN.
func nanPrefix(out []float64, n int) {
	for i := 0; i < n && i < len(out); i++ {
		out[i] = math.NaN()
	}
}

// RollingMean computes the simple moving average over a trailing window.
// Indices before window-1 are NaN.
func RollingMean(vals []float64, window int) []float64 {
	out := make([]float64, len(vals))
	if window <= 0 || len(vals) < window {
		nanPrefix(out, len(out))
		return out
	}
	nanPrefix(out, window-1)

	sum := 0.0
	for i, v := range vals {
		sum += v
		if i >= window {
			sum -= vals[i-window]
		}
		if i >= window-1 {
			out[i] = sum / float64(window)
		}
	}
	return out
}

// RollingStd computes the sample standard deviation (ddof=1) over a
// trailing window. Sample std matches the conventional Bollinger Band
// definition; switching to population std would narrow the bands.
// Indices before window-1 are NaN. A window of 1 is all-NaN (a single
// sample has no sample deviation).
func RollingStd(vals []float64, window int) []float64 {
	out := make([]float64, len(vals))
	if window <= 1 || len(vals) < window {
		nanPrefix(out, len(out))
		return out
	}
	nanPrefix(out, window-1)

	// Two-pass per window keeps this numerically honest for the window
	// sizes in play (≤ 200); no running-sum-of-squares cancellation.
	for i := window - 1; i < len(vals); i++ {
		lo := i - window + 1
		mean := 0.0
		for _, v := range vals[lo : i+1] {
			mean += v
		}
		mean /= float64(window)

		ss := 0.0
		for _, v := range vals[lo : i+1] {
			d := v - mean
			ss += d * d
		}
		out[i] = math.Sqrt(ss / float64(window-1))
	}
	return out
}

// EMA computes the exponential moving average with smoothing factor
// α = 2/(span+1). Seeded at the first sample, so every index has a
// value, with no warm-up gap, unlike the rolling-window transforms.
func EMA(vals []float64, span int) []float64 {
	out := make([]float64, len(vals))
	if len(vals) == 0 {
		return out
	}
	if span <= 0 {
		nanPrefix(out, len(out))
		return out
	}
	alpha := 2.0 / float64(span+1)
	out[0] = vals[0]
	for i := 1; i < len(vals); i++ {
		out[i] = alpha*vals[i] + (1-alpha)*out[i-1]
	}
	return out
}

// RollingMin computes the minimum over a trailing window. Indices before
// window-1 are NaN.
func RollingMin(vals []float64, window int) []float64 {
	return rollingExtreme(vals, window, func(a, b float64) bool { return a < b })
}

// RollingMax computes the maximum over a trailing window. Indices before
// window-1 are NaN.
func RollingMax(vals []float64, window int) []float64 {
	return rollingExtreme(vals, window, func(a, b float64) bool { return a > b })
}

func rollingExtreme(vals []float64, window int, better func(a, b float64) bool) []float64 {
	out := make([]float64, len(vals))
	if window <= 0 || len(vals) < window {
		nanPrefix(out, len(out))
		return out
	}
	nanPrefix(out, window-1)

	for i := window - 1; i < len(vals); i++ {
		best := vals[i-window+1]
		for _, v := range vals[i-window+2 : i+1] {
			if better(v, best) {
				best = v
			}
		}
		out[i] = best
	}
	return out
}

// Last returns the final element of vals and whether it is defined
// (present and not NaN).
func Last(vals []float64) (float64, bool) {
	if len(vals) == 0 {
		return 0, false
	}
	v := vals[len(vals)-1]
	if math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// Diff computes element-wise first differences: out[i] = vals[i]-vals[i-1].
// out[0] is NaN.
func Diff(vals []float64) []float64 {
	out := make([]float64, len(vals))
	if len(vals) == 0 {
		return out
	}
	out[0] = math.NaN()
	for i := 1; i < len(vals); i++ {
		out[i] = vals[i] - vals[i-1]
	}
	return out
}
