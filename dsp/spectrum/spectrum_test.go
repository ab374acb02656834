package spectrum

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/cwbudde/algo-vibe/internal/testutil"
)

func TestMagnitude(t *testing.T) {
	bins := []complex128{3 + 4i, -1 - 1i, 0}

	mag := Magnitude(bins)
	if len(mag) != len(bins) {
		t.Fatalf("Magnitude length mismatch: got=%d want=%d", len(mag), len(bins))
	}

	if math.Abs(mag[0]-5) > 1e-12 {
		t.Fatalf("Magnitude[0]=%f want=5", mag[0])
	}

	if Magnitude(nil) != nil {
		t.Fatal("expected nil for empty input")
	}
}

func TestNextPowerOfTwo(t *testing.T) {
	tests := []struct{ n, want int }{
		{-3, 1}, {0, 1}, {1, 1}, {2, 2}, {3, 4}, {8, 8}, {9, 16}, {6400, 8192}, {16384, 16384},
	}

	for _, tt := range tests {
		if got := NextPowerOfTwo(tt.n); got != tt.want {
			t.Fatalf("NextPowerOfTwo(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestComputeZeros(t *testing.T) {
	s := Compute(make([]float64, 8), 1000)

	if s.Len() != 8 || len(s.Frequency) != 8 {
		t.Fatalf("lengths = %d/%d, want 8", s.Len(), len(s.Frequency))
	}

	for i := range s.Magnitude {
		if s.Magnitude[i] != 0 {
			t.Fatalf("magnitude[%d] = %v, want 0", i, s.Magnitude[i])
		}

		if want := float64(i) * 320; math.Abs(s.Frequency[i]-want) > 1e-9 {
			t.Fatalf("frequency[%d] = %v, want %v", i, s.Frequency[i], want)
		}
	}
}

func TestComputeLengthInvariant(t *testing.T) {
	for _, n := range []int{1, 2, 3, 5, 8, 100, 1000, 1024, 2500} {
		s := Compute(testutil.DeterministicNoise(int64(n), 1, n), 500)

		want := NextPowerOfTwo(n)
		if len(s.Magnitude) != want || len(s.Frequency) != want {
			t.Fatalf("n=%d: lengths %d/%d, want %d", n, len(s.Magnitude), len(s.Frequency), want)
		}
	}
}

func TestComputeSineAmplitude(t *testing.T) {
	// 1024 samples at Fs = 2560 Hz; 100 Hz sits exactly on bin 40.
	const (
		fmax = 1000.0
		n    = 1024
	)

	fs := fmax * 2.56
	sig := testutil.DeterministicSine(100, fs, 3, n)

	s := Compute(sig, fmax)

	bin := 40
	if math.Abs(s.Frequency[bin]-100) > 1e-9 {
		t.Fatalf("frequency[%d] = %v, want 100", bin, s.Frequency[bin])
	}

	if math.Abs(s.Magnitude[bin]-3) > 1e-9 {
		t.Fatalf("magnitude[%d] = %v, want 3", bin, s.Magnitude[bin])
	}

	// Full spectrum: the mirror bin carries the same magnitude.
	if math.Abs(s.Magnitude[n-bin]-3) > 1e-9 {
		t.Fatalf("mirror magnitude = %v, want 3", s.Magnitude[n-bin])
	}
}

func TestComputeNormalisesByOriginalLength(t *testing.T) {
	// A DC record of 3 samples is padded to 4; bin 0 sums to 3*v.
	s := Compute([]float64{2, 2, 2}, 100)

	if s.Len() != 4 {
		t.Fatalf("len = %d, want 4", s.Len())
	}

	if want := 2 * 6.0 / 3; math.Abs(s.Magnitude[0]-want) > 1e-12 {
		t.Fatalf("magnitude[0] = %v, want %v", s.Magnitude[0], want)
	}
}

func TestComputeSingleSample(t *testing.T) {
	s := Compute([]float64{-1.5}, 1000)
	if s.Len() != 1 || s.Magnitude[0] != 3 || s.Frequency[0] != 0 {
		t.Fatalf("unexpected single-sample spectrum: %+v", s)
	}
}

func TestComputeEmpty(t *testing.T) {
	s := Compute(nil, 1000)
	if !s.IsEmpty() || s.Magnitude == nil || s.Frequency == nil {
		t.Fatalf("expected non-nil empty spectrum, got %#v", s)
	}

	if _, err := Transform(nil, 1000); err != ErrEmptyInput {
		t.Fatalf("Transform(nil) err = %v, want ErrEmptyInput", err)
	}
}

func TestComputeIsIdempotent(t *testing.T) {
	sig := testutil.DeterministicNoise(42, 5, 777)

	a := Compute(sig, 2000)
	b := Compute(sig, 2000)

	for i := range a.Magnitude {
		if a.Magnitude[i] != b.Magnitude[i] || a.Frequency[i] != b.Frequency[i] {
			t.Fatalf("bin %d differs between runs", i)
		}
	}
}

func TestInverseRoundTrip(t *testing.T) {
	sig := testutil.DeterministicNoise(3, 1, 64)

	in := make([]complex128, len(sig))
	for i, x := range sig {
		in[i] = complex(x, 0)
	}

	bins, err := forward(in)
	if err != nil {
		t.Fatalf("forward error: %v", err)
	}

	back, err := Inverse(bins)
	if err != nil {
		t.Fatalf("Inverse error: %v", err)
	}

	testutil.RequireSliceNearlyEqual(t, back, sig, 1e-12)

	if _, err := Inverse(nil); err == nil {
		t.Fatal("expected error for empty bins")
	}
}

func TestInverseOfSingleBin(t *testing.T) {
	const n = 16

	bins := make([]complex128, n)
	bins[2] = complex(n/2, 0)
	bins[n-2] = complex(n/2, 0)

	got, err := Inverse(bins)
	if err != nil {
		t.Fatal(err)
	}

	for i, v := range got {
		want := math.Cos(2 * math.Pi * 2 * float64(i) / n)
		if math.Abs(v-want) > 1e-12 {
			t.Fatalf("sample %d = %v, want %v", i, v, want)
		}
	}

	if math.Abs(cmplx.Abs(bins[2])-n/2) > 0 {
		t.Fatal("Inverse modified its input")
	}
}

func TestOneSided(t *testing.T) {
	s := Compute(make([]float64, 16), 1000)

	// Δf = 160 Hz; bins 1..6 lie at or below 1000 Hz.
	half := s.OneSided(1000)
	if half.Len() != 6 {
		t.Fatalf("len = %d, want 6", half.Len())
	}

	if half.Frequency[0] != 160 || half.Frequency[5] != 960 {
		t.Fatalf("unexpected frequencies %v", half.Frequency)
	}

	all := s.OneSided(0)
	if all.Len() != 8 {
		t.Fatalf("unbounded len = %d, want 8", all.Len())
	}

	if got := (Spectrum{Frequency: []float64{0}, Magnitude: []float64{1}}).OneSided(10); !got.IsEmpty() {
		t.Fatalf("expected empty, got %+v", got)
	}
}

func TestSortByFrequency(t *testing.T) {
	s := SortByFrequency([]float64{30, 10, 20, 10}, []float64{3, 1, 2, 4})

	testutil.RequireSliceNearlyEqual(t, s.Frequency, []float64{10, 10, 20, 30}, 0)
	testutil.RequireSliceNearlyEqual(t, s.Magnitude, []float64{1, 4, 2, 3}, 0)

	trunc := SortByFrequency([]float64{2, 1, 0}, []float64{5, 6})
	testutil.RequireSliceNearlyEqual(t, trunc.Frequency, []float64{1, 2}, 0)
	testutil.RequireSliceNearlyEqual(t, trunc.Magnitude, []float64{6, 5}, 0)

	if got := SortByFrequency(nil, []float64{1}); !got.IsEmpty() {
		t.Fatalf("expected empty, got %+v", got)
	}
}
