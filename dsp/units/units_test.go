package units

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-vibe/internal/testutil"
)

func TestSensitivity(t *testing.T) {
	tests := []struct {
		gRange int
		want   float64
	}{
		{2, 16384},
		{4, 8192},
		{8, 4096},
		{16, 2048},
		{0, 16384},
		{3, 16384},
		{32, 16384},
	}

	for _, tt := range tests {
		if got := Sensitivity(tt.gRange); got != tt.want {
			t.Fatalf("Sensitivity(%d) = %v, want %v", tt.gRange, got, tt.want)
		}
	}
}

func TestADCToGExample(t *testing.T) {
	g := ADCToG(2048, 16)
	if g != 1.0 {
		t.Fatalf("ADCToG(2048, 16) = %v, want 1", g)
	}

	if mm := GToMmPerSec2(g); mm != 9806.65 {
		t.Fatalf("GToMmPerSec2(1) = %v, want 9806.65", mm)
	}
}

func TestADCRoundTrip(t *testing.T) {
	for _, gRange := range []int{2, 4, 8, 16} {
		for _, g := range []float64{-3.75, -1, 0, 0.001, 0.5, 1.25, 7.9} {
			got := ADCToG(GToADC(g, gRange), gRange)
			if math.Abs(got-g) > 1e-12 {
				t.Fatalf("range %d: round trip of %v = %v", gRange, g, got)
			}
		}
	}
}

func TestADCToGPassesOutOfRangeValues(t *testing.T) {
	// 100000 counts is far beyond ±2 G but must scale linearly.
	got := ADCToG(100000, 2)
	if math.Abs(got-100000.0/16384.0) > 1e-12 {
		t.Fatalf("ADCToG(100000, 2) = %v", got)
	}
}

func TestSliceConversions(t *testing.T) {
	g := ADCSliceToG([]float64{2048, -4096, 0}, 16)
	testutil.RequireSliceNearlyEqual(t, g, []float64{1, -2, 0}, 1e-12)

	mm := GSliceToMmPerSec2(g)
	testutil.RequireSliceNearlyEqual(t, mm, []float64{9806.65, -19613.3, 0}, 1e-9)

	if out := ADCSliceToG(nil, 2); out == nil || len(out) != 0 {
		t.Fatalf("ADCSliceToG(nil) = %#v, want empty slice", out)
	}
	if out := GSliceToMmPerSec2(nil); out == nil || len(out) != 0 {
		t.Fatalf("GSliceToMmPerSec2(nil) = %#v, want empty slice", out)
	}
}

func TestAccelerationToVelocity(t *testing.T) {
	got := AccelerationToVelocity([]float64{1, 2, 3}, 0.5)
	testutil.RequireSliceNearlyEqual(t, got, []float64{0, 0.75, 1.25}, 1e-15)
}

func TestAccelerationToVelocityIsNotCumulative(t *testing.T) {
	got := AccelerationToVelocity([]float64{1, 1, 1, 1}, 2)
	testutil.RequireSliceNearlyEqual(t, got, []float64{0, 2, 2, 2}, 0)
}

func TestAccelerationToVelocityZeroStart(t *testing.T) {
	inputs := [][]float64{
		{5},
		{-3, 7},
		testutil.DeterministicNoise(7, 100, 257),
	}

	for i, in := range inputs {
		out := AccelerationToVelocity(in, 0.001)
		if len(out) != len(in) {
			t.Fatalf("case %d: len = %d, want %d", i, len(out), len(in))
		}
		if out[0] != 0 {
			t.Fatalf("case %d: v[0] = %v, want 0", i, out[0])
		}
	}

	if out := AccelerationToVelocity(nil, 1); len(out) != 0 {
		t.Fatalf("empty input produced %v", out)
	}
}

func TestVelocityFromFrequency(t *testing.T) {
	for _, x := range []float64{0, 1, -5, 1e9, math.Inf(1)} {
		if got := VelocityFromFrequency(x, 0); got != 0 {
			t.Fatalf("VelocityFromFrequency(%v, 0) = %v, want 0", x, got)
		}
	}

	got := VelocityFromFrequency(2*math.Pi*50, 50)
	if math.Abs(got-1) > 1e-12 {
		t.Fatalf("VelocityFromFrequency(2π·50, 50) = %v, want 1", got)
	}
}

func TestRemoveDC(t *testing.T) {
	in := []float64{1, 2, 3, 4}
	out := RemoveDC(in)
	testutil.RequireSliceNearlyEqual(t, out, []float64{-1.5, -0.5, 0.5, 1.5}, 1e-12)

	if in[0] != 1 {
		t.Fatal("RemoveDC modified its input")
	}
	if got := RemoveDC(nil); len(got) != 0 {
		t.Fatalf("RemoveDC(nil) = %v", got)
	}
}
