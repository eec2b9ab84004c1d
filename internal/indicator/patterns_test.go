package indicator

import (
	"math"
	"testing"
)

func TestDetectPatterns_InsufficientData(t *testing.T) {
	for n := 0; n < 5; n++ {
		closes := make([]float64, n)
		for i := range closes {
			closes[i] = 100
		}
		got := DetectPatterns(closes)
		if len(got) != 1 || got[0] != TrendInsufficient {
			t.Errorf("length %d: got %v, want [%q]", n, got, TrendInsufficient)
		}
	}
}

func TestDetectPatterns_Uptrend(t *testing.T) {
	closes := []float64{100, 101, 99, 102, 103, 105, 104, 106, 108, 110}
	// Reference close 5 bars back is 105; 110 vs 105 is +4.76%.
	got := DetectPatterns(closes)
	if len(got) != 1 || got[0] != TrendUp {
		t.Errorf("got %v, want [%q]", got, TrendUp)
	}
}

func TestDetectPatterns_Downtrend(t *testing.T) {
	closes := []float64{110, 108, 106, 104, 105, 103, 102, 99, 101, 100}
	got := DetectPatterns(closes)
	if len(got) != 1 || got[0] != TrendDown {
		t.Errorf("got %v, want [%q]", got, TrendDown)
	}
}

func TestDetectPatterns_Sideways(t *testing.T) {
	closes := []float64{100, 100.5, 99.8, 100.2, 100.1, 100.9, 100.4}
	got := DetectPatterns(closes)
	if len(got) != 1 || got[0] != TrendSideways {
		t.Errorf("got %v, want [%q]", got, TrendSideways)
	}
}

func TestDetectPatterns_ExactlyFiveBars(t *testing.T) {
	// With exactly 5 bars the reference is the first close.
	closes := []float64{100, 101, 102, 103, 110}
	got := DetectPatterns(closes)
	if len(got) != 1 || got[0] != TrendUp {
		t.Errorf("got %v, want [%q]", got, TrendUp)
	}
}

func TestSupportResistance_FixedOffsets(t *testing.T) {
	support, resistance := SupportResistance(100)
	wantSupport := []float64{98, 95, 92}
	wantResistance := []float64{102, 105, 108}
	if len(support) != 3 || len(resistance) != 3 {
		t.Fatalf("expected 3 levels each, got %d/%d", len(support), len(resistance))
	}
	for i := range wantSupport {
		if math.Abs(support[i]-wantSupport[i]) > 1e-9 {
			t.Errorf("support[%d] = %v, want %v", i, support[i], wantSupport[i])
		}
		if math.Abs(resistance[i]-wantResistance[i]) > 1e-9 {
			t.Errorf("resistance[%d] = %v, want %v", i, resistance[i], wantResistance[i])
		}
	}
}
