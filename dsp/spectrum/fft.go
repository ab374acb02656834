package spectrum

import (
	"errors"
	"fmt"
	"math/bits"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/cwbudde/algo-vibe/dsp/core"
)

// ErrEmptyInput is returned when a transform receives no samples.
var ErrEmptyInput = errors.New("spectrum: empty input")

// NextPowerOfTwo returns the smallest power of two >= n, 2^ceil(log2(n)).
// It returns 1 for n <= 1.
func NextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}

	return 1 << bits.Len(uint(n-1))
}

// Compute returns the amplitude spectrum of a real-valued signal captured
// with the given fmax.
//
// The signal is zero-padded to N = NextPowerOfTwo(len(signal)). Bin i has
// magnitude 2*|X[i]|/n, normalised by the unpadded length n, and frequency
// i * fmax*2.56/N. All N bins are returned. Any transform failure yields
// [Empty].
func Compute(signal []float64, fmax float64) Spectrum {
	s, err := Transform(signal, fmax)
	if err != nil {
		return Empty()
	}

	return s
}

// Transform is [Compute] with the failure reported to the caller.
func Transform(signal []float64, fmax float64) (Spectrum, error) {
	n := len(signal)
	if n == 0 {
		return Empty(), ErrEmptyInput
	}

	fftSize := NextPowerOfTwo(n)

	padded := make([]complex128, fftSize)
	for i, x := range signal {
		padded[i] = complex(x, 0)
	}

	bins, err := forward(padded)
	if err != nil {
		return Empty(), err
	}

	mag := Magnitude(bins)
	scale := 2 / float64(n)
	for i := range mag {
		mag[i] *= scale
	}

	df := fmax * core.SampleRateFactor / float64(fftSize)
	freq := make([]float64, fftSize)
	for i := range freq {
		freq[i] = float64(i) * df
	}

	return Spectrum{Frequency: freq, Magnitude: mag}, nil
}

// Inverse returns the real part of the inverse FFT of bins. The transform is
// normalised so that Inverse(FFT(x)) == x.
func Inverse(bins []complex128) ([]float64, error) {
	if len(bins) == 0 {
		return nil, ErrEmptyInput
	}

	timeData, err := inverse(bins)
	if err != nil {
		return nil, err
	}

	out := make([]float64, len(timeData))
	for i, c := range timeData {
		out[i] = real(c)
	}

	return out, nil
}

func forward(in []complex128) (out []complex128, err error) {
	if len(in) == 1 {
		return []complex128{in[0]}, nil
	}

	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("spectrum: forward FFT of size %d panicked: %v", len(in), r)
		}
	}()

	plan, err := algofft.NewPlan64(len(in))
	if err != nil {
		return nil, fmt.Errorf("spectrum: failed to create FFT plan: %w", err)
	}

	out = make([]complex128, len(in))
	if err := plan.Forward(out, in); err != nil {
		return nil, fmt.Errorf("spectrum: forward FFT: %w", err)
	}

	return out, nil
}

func inverse(in []complex128) (out []complex128, err error) {
	if len(in) == 1 {
		return []complex128{in[0]}, nil
	}

	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("spectrum: inverse FFT of size %d panicked: %v", len(in), r)
		}
	}()

	plan, err := algofft.NewPlan64(len(in))
	if err != nil {
		return nil, fmt.Errorf("spectrum: failed to create FFT plan: %w", err)
	}

	out = make([]complex128, len(in))
	if err := plan.Inverse(out, in); err != nil {
		return nil, fmt.Errorf("spectrum: inverse FFT: %w", err)
	}

	return out, nil
}
