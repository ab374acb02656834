package reconstruct

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-vibe/dsp/core"
	"github.com/cwbudde/algo-vibe/dsp/spectrum"
)

func TestReconstructLengthFollowsLOR(t *testing.T) {
	tests := []struct {
		lor  int
		want int
	}{
		{100, 256},
		{250, 640},
		{400, 1024},
		{6400, 16384},
	}

	for _, tt := range tests {
		res, err := Reconstruct(Request{LOR: tt.lor, Fmax: 1000, Acc: []float64{0, 1}, FreqPoint: []float64{0, 10}, AreFrequenciesInHz: true})
		if err != nil {
			t.Fatalf("lor=%d: %v", tt.lor, err)
		}

		if len(res.Signal) != tt.want {
			t.Fatalf("lor=%d: len = %d, want %d", tt.lor, len(res.Signal), tt.want)
		}
	}
}

func TestReconstructRecoversAmplitudeInHz(t *testing.T) {
	// LOR 400 at 1 kHz: n = N = 1024, Δf = 2.5 Hz.
	req := Request{
		LOR:                400,
		Fmax:               1000,
		Acc:                []float64{0.5, 2},
		FreqPoint:          []float64{250, 100},
		AreFrequenciesInHz: true,
	}

	res, err := Reconstruct(req)
	if err != nil {
		t.Fatal(err)
	}

	s := spectrum.Compute(res.Signal, req.Fmax)

	for _, tc := range []struct {
		bin  int
		want float64
	}{
		{40, 2},
		{100, 0.5},
	} {
		if math.Abs(s.Magnitude[tc.bin]-tc.want) > 1e-9 {
			t.Fatalf("bin %d magnitude = %v, want %v", tc.bin, s.Magnitude[tc.bin], tc.want)
		}
	}

	if math.Abs(res.SampleInterval-0.4/1023) > 1e-15 {
		t.Fatalf("SampleInterval = %v", res.SampleInterval)
	}
}

func TestReconstructBinIndices(t *testing.T) {
	req := Request{LOR: 100, Fmax: 500, Acc: []float64{0, 0, 3}}

	res, err := Reconstruct(req)
	if err != nil {
		t.Fatal(err)
	}

	// n = N = 256; bin 2 is a cosine of 2 cycles with amplitude 3.
	for i, v := range res.Signal {
		want := 3 * math.Cos(2*math.Pi*2*float64(i)/256)
		if math.Abs(v-want) > 1e-9 {
			t.Fatalf("sample %d = %v, want %v", i, v, want)
		}
	}
}

func TestReconstructCollidingLinesKeepLarger(t *testing.T) {
	req := Request{
		LOR:                400,
		Fmax:               1000,
		Acc:                []float64{1, 4},
		FreqPoint:          []float64{100.4, 99.6},
		AreFrequenciesInHz: true,
	}

	res, err := Reconstruct(req)
	if err != nil {
		t.Fatal(err)
	}

	s := spectrum.Compute(res.Signal, req.Fmax)
	if math.Abs(s.Magnitude[40]-4) > 1e-9 {
		t.Fatalf("bin 40 magnitude = %v, want 4", s.Magnitude[40])
	}
}

func TestReconstructIgnoresLinesAboveNyquist(t *testing.T) {
	req := Request{
		LOR:                100,
		Fmax:               1000,
		Acc:                []float64{5, math.NaN(), 7},
		FreqPoint:          []float64{5000, 20, -3},
		AreFrequenciesInHz: true,
	}

	res, err := Reconstruct(req)
	if err != nil {
		t.Fatal(err)
	}

	for i, v := range res.Signal {
		if v != 0 {
			t.Fatalf("sample %d = %v, want 0", i, v)
		}
	}
}

func TestReconstructAmplitudeForPaddedLengths(t *testing.T) {
	// n = round(LOR*2.56) is not a power of two for these LORs, so the
	// record is built at N > n and truncated. Bin 4 completes a whole number
	// of cycles over both lengths, so the forward magnitude is exact.
	for _, lor := range []int{250, 400, 1000} {
		req := Request{LOR: lor, Fmax: 1000, Acc: []float64{0, 0, 0, 0, 1.5}}

		res, err := Reconstruct(req)
		if err != nil {
			t.Fatalf("lor=%d: %v", lor, err)
		}

		peak := 0.0
		for _, v := range res.Signal {
			peak = math.Max(peak, math.Abs(v))
		}
		if math.Abs(peak-1.5) > 1e-9 {
			t.Fatalf("lor=%d: time peak = %v, want 1.5", lor, peak)
		}

		s := spectrum.Compute(res.Signal, req.Fmax)
		if math.Abs(s.Magnitude[4]-1.5) > 1e-9 {
			t.Fatalf("lor=%d: bin 4 magnitude = %v, want 1.5", lor, s.Magnitude[4])
		}
	}
}

func TestReconstructSkipsOutOfRangeFrequencies(t *testing.T) {
	req := Request{
		LOR:                400,
		Fmax:               1000,
		Acc:                []float64{1, 2, 3},
		FreqPoint:          []float64{10, 1e300, math.MaxFloat64},
		AreFrequenciesInHz: true,
	}

	res, err := Reconstruct(req)
	if err != nil {
		t.Fatal(err)
	}

	// Only the 10 Hz line (bin 4) survives.
	for i, v := range res.Signal {
		want := math.Cos(2 * math.Pi * 4 * float64(i) / 1024)
		if math.Abs(v-want) > 1e-9 {
			t.Fatalf("sample %d = %v, want %v", i, v, want)
		}
	}
}

func TestReconstructErrors(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want error
	}{
		{"zero lor", Request{LOR: 0, Fmax: 1000, Acc: []float64{1}}, ErrInvalidRequest},
		{"zero fmax", Request{LOR: 400, Fmax: 0, Acc: []float64{1}}, ErrInvalidRequest},
		{"inf fmax", Request{LOR: 400, Fmax: math.Inf(1), Acc: []float64{1}}, ErrInvalidRequest},
		{"lor above cap", Request{LOR: core.MaxLOR + 1, Fmax: 1000, Acc: []float64{1}}, ErrInvalidRequest},
		{"huge lor", Request{LOR: 1 << 50, Fmax: 1000, Acc: []float64{1, 2, 1}}, ErrInvalidRequest},
		{"no lines", Request{LOR: 400, Fmax: 1000}, ErrEmptySpectrum},
		{"no hz lines", Request{LOR: 400, Fmax: 1000, Acc: []float64{1}, AreFrequenciesInHz: true}, ErrEmptySpectrum},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Reconstruct(tt.req)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestReconstructIsIdempotent(t *testing.T) {
	req := Request{
		LOR:                800,
		Fmax:               2000,
		Acc:                []float64{0.1, 0.7, 0.3},
		FreqPoint:          []float64{310, 45, 1200},
		AreFrequenciesInHz: true,
	}

	a, err := Reconstruct(req)
	if err != nil {
		t.Fatal(err)
	}

	b, err := Reconstruct(req)
	if err != nil {
		t.Fatal(err)
	}

	for i := range a.Signal {
		if a.Signal[i] != b.Signal[i] {
			t.Fatalf("sample %d differs between runs", i)
		}
	}

	if req.FreqPoint[0] != 310 {
		t.Fatal("Reconstruct reordered the caller's slice")
	}
}
