package frequency

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-vibe/dsp/spectrum"
)

const tolerance = 1e-9

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func lines(freq, mag []float64) spectrum.Spectrum {
	return spectrum.Spectrum{Frequency: freq, Magnitude: mag}
}

func TestCalculateEmpty(t *testing.T) {
	if s := Calculate(spectrum.Empty()); s != (Stats{}) {
		t.Fatalf("Calculate(empty) = %+v, want zero", s)
	}

	if s := Calculate(lines([]float64{1}, []float64{1, 2})); s != (Stats{}) {
		t.Fatalf("Calculate(mismatched) = %+v, want zero", s)
	}
}

func TestCalculateAllZero(t *testing.T) {
	s := Calculate(lines([]float64{10, 20, 30}, []float64{0, 0, 0}))

	if s.BinCount != 3 {
		t.Fatalf("BinCount = %d, want 3", s.BinCount)
	}
	if s.OverallRMS != 0 || s.Centroid != 0 || s.Rolloff != 0 || s.Bandwidth != 0 {
		t.Fatalf("unexpected non-zero stats: %+v", s)
	}
}

func TestCalculateSingleLine(t *testing.T) {
	s := Calculate(lines([]float64{10, 20, 30, 40, 50}, []float64{0, 0, 2, 0, 0}))

	if s.MaxBin != 2 || s.Max != 2 || s.DominantFrequency != 30 {
		t.Fatalf("dominant line = %v@%d (%v Hz)", s.Max, s.MaxBin, s.DominantFrequency)
	}
	if !almostEqual(s.OverallRMS, 2/math.Sqrt2, tolerance) {
		t.Fatalf("OverallRMS = %v, want %v", s.OverallRMS, 2/math.Sqrt2)
	}
	if !almostEqual(s.Centroid, 30, tolerance) {
		t.Fatalf("Centroid = %v, want 30", s.Centroid)
	}
	if !almostEqual(s.Rolloff, 30, tolerance) {
		t.Fatalf("Rolloff = %v, want 30", s.Rolloff)
	}
	// The -3 dB points interpolate to 20+10/√2 and 40-10/√2.
	want := 2 * 10 * (1 - 1/math.Sqrt2)
	if !almostEqual(s.Bandwidth, want, 1e-9) {
		t.Fatalf("Bandwidth = %v, want %v", s.Bandwidth, want)
	}
}

func TestCentroidUnevenSpacing(t *testing.T) {
	s := lines([]float64{10, 15, 100}, []float64{1, 1, 2})
	if got := Centroid(s); !almostEqual(got, (10+15+200)/4.0, tolerance) {
		t.Fatalf("Centroid = %v", got)
	}
}

func TestOverallRMSMatchesCalculate(t *testing.T) {
	s := lines([]float64{5, 10, 15}, []float64{3, 4, 0})
	if got, want := OverallRMS(s.Magnitude), Calculate(s).OverallRMS; !almostEqual(got, want, tolerance) {
		t.Fatalf("OverallRMS = %v, Calculate = %v", got, want)
	}
	if got := OverallRMS(nil); got != 0 {
		t.Fatalf("OverallRMS(nil) = %v", got)
	}
}
