package smartfeed

import (
	"alpha-enginev1/internal/model"
)

// Resample aggregates a daily series into weekly or monthly buckets.
// Each bucket opens with its first bar's open, closes with its last
// bar's close, and takes the extreme high/low and summed volume across
// the bucket. The bucket timestamp is the first trading day inside it.
func Resample(daily *model.Series, tf model.Timeframe) *model.Series {
	out := &model.Series{Ticker: daily.Ticker, Timeframe: tf}
	if daily.Empty() {
		return out
	}

	key := func(b model.Bar) [2]int {
		switch tf {
		case model.TFWeekly:
			y, w := b.TS.ISOWeek()
			return [2]int{y, w}
		default: // monthly
			return [2]int{b.TS.Year(), int(b.TS.Month())}
		}
	}

	cur := key(daily.Bars[0])
	agg := daily.Bars[0]
	for _, b := range daily.Bars[1:] {
		k := key(b)
		if k != cur {
			out.Bars = append(out.Bars, agg)
			cur, agg = k, b
			continue
		}
		if b.High > agg.High {
			agg.High = b.High
		}
		if b.Low < agg.Low {
			agg.Low = b.Low
		}
		agg.Close = b.Close
		agg.Volume += b.Volume
	}
	out.Bars = append(out.Bars, agg)
	return out
}
