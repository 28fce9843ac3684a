package indicator

import (
	"testing"

	"alpha-enginev1/internal/model"
)

func TestBollinger_FlatSeriesCollapses(t *testing.T) {
	// No variance for 20+ bars: upper == middle == lower, and the latest
	// close sits inside the (zero-width) bands → Neutral.
	closes := ramp(250, 0, 25)
	b, ok := Bollinger(closes)
	if !ok {
		t.Fatal("expected bands on 25 closes")
	}
	assertClose(t, "upper", b.Upper, 250, 1e-9)
	assertClose(t, "middle", b.Middle, 250, 1e-9)
	assertClose(t, "lower", b.Lower, 250, 1e-9)
	if got := b.Position(250); got != model.BBNeutral {
		t.Errorf("flat position: got %q, want Neutral", got)
	}
}

func TestBollinger_Ordering(t *testing.T) {
	// Upper ≥ middle ≥ lower wherever all three are defined.
	closes := make([]float64, 60)
	closes[0] = 100
	x := uint64(7)
	for i := 1; i < len(closes); i++ {
		x = x*6364136223846793005 + 1442695040888963407
		closes[i] = closes[i-1] + float64(int64(x>>33)%7) - 3
	}
	for n := BBWindow; n <= len(closes); n++ {
		b, ok := Bollinger(closes[:n])
		if !ok {
			t.Fatalf("bands undefined at n=%d", n)
		}
		if b.Upper < b.Middle || b.Middle < b.Lower {
			t.Fatalf("band ordering violated at n=%d: %+v", n, b)
		}
	}
}

func TestBollinger_InsufficientHistory(t *testing.T) {
	if _, ok := Bollinger(ramp(100, 1, 19)); ok {
		t.Error("19 closes must not produce bands")
	}
}

func TestBollinger_PositionExtremes(t *testing.T) {
	// 19 flat bars then a spike: std grows but the spike close still
	// clears the upper band.
	closes := append(ramp(100, 0, 19), 150)
	b, ok := Bollinger(closes)
	if !ok {
		t.Fatal("expected bands")
	}
	if got := b.Position(150); got != model.BBOverbought {
		t.Errorf("spike position: got %q, want Overbought", got)
	}
	if got := b.Position(b.Lower - 1); got != model.BBOversold {
		t.Errorf("below lower band: got %q, want Oversold", got)
	}
}

func TestSupportResistance(t *testing.T) {
	highs := ramp(110, 1, 40)
	lows := ramp(90, 1, 40)
	// Last 30 bars: lows[10..39] min = 100, highs max = 149.
	s, r, ok := SupportResistance(highs, lows, SRWindowShort)
	if !ok {
		t.Fatal("expected support/resistance on 40 bars")
	}
	assertClose(t, "support", s, 100, 1e-9)
	assertClose(t, "resistance", r, 149, 1e-9)

	if _, _, ok := SupportResistance(highs, lows, SRWindowLong); ok {
		t.Error("126-bar window on 40 bars must be absent")
	}
}
