// Package reconstruct synthesises a time-domain record from the sparse
// amplitude spectrum a sensor backend returns when raw samples are not
// available.
package reconstruct

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-vibe/dsp/core"
	"github.com/cwbudde/algo-vibe/dsp/spectrum"
)

var (
	// ErrInvalidRequest is returned for a config that fails
	// [core.SensorConfig.Valid]: LOR outside (0, core.MaxLOR] or a
	// non-positive or non-finite Fmax.
	ErrInvalidRequest = errors.New("reconstruct: invalid LOR or Fmax")
	// ErrEmptySpectrum is returned when the request carries no spectral lines.
	ErrEmptySpectrum = errors.New("reconstruct: empty spectrum")
)

// Request describes a sparse spectrum.
type Request struct {
	LOR  int
	Fmax float64
	// Acc holds the line amplitudes.
	Acc []float64
	// FreqPoint holds the line frequencies in Hz when AreFrequenciesInHz is
	// set. Otherwise the position of each amplitude in Acc is its bin index.
	FreqPoint          []float64
	AreFrequenciesInHz bool
}

// Result holds the reconstructed record.
type Result struct {
	Signal []float64
	// SampleInterval is the spacing of Signal in seconds.
	SampleInterval float64
}

// Reconstruct builds a real-valued record of round(LOR*2.56) samples whose
// FFT amplitude spectrum matches the requested lines.
//
// The record is built at the padded length N = NextPowerOfTwo(n). Every line
// of amplitude A at bin k contributes A*N/2 to bins k and N-k with zero
// phase, so the record holds a cosine of peak amplitude A. Forward analysis
// with [spectrum.Compute] recovers A exactly when n is a power of two and up
// to truncation leakage otherwise. Lines at or above Nyquist are ignored and lines
// sharing a bin keep the larger amplitude.
func Reconstruct(req Request) (Result, error) {
	cfg := core.SensorConfig{Fmax: req.Fmax, LOR: req.LOR}
	if !cfg.Valid() || !core.IsFinite(req.Fmax) {
		return Result{}, fmt.Errorf("%w: lor=%d fmax=%v", ErrInvalidRequest, req.LOR, req.Fmax)
	}

	lines := sparseLines(req)
	if lines.IsEmpty() {
		return Result{}, ErrEmptySpectrum
	}

	n := cfg.ExpectedSamples()
	fftSize := spectrum.NextPowerOfTwo(n)
	df := cfg.FrequencyResolution(fftSize)

	amp := make([]float64, fftSize/2)
	for i, mag := range lines.Magnitude {
		if !core.IsFinite(mag) {
			continue
		}

		k := i
		if req.AreFrequenciesInHz {
			f := lines.Frequency[i]
			if !core.IsFinite(f) || f < 0 {
				continue
			}

			kf := math.Round(f / df)
			if kf >= float64(len(amp)) {
				continue
			}
			k = int(kf)
		}

		if k >= len(amp) {
			continue
		}

		if math.Abs(mag) > math.Abs(amp[k]) {
			amp[k] = mag
		}
	}

	half := float64(fftSize) / 2
	bins := make([]complex128, fftSize)
	for k, a := range amp {
		if a == 0 {
			continue
		}

		v := complex(math.Abs(a)*half, 0)
		bins[k] = v
		if k > 0 {
			bins[fftSize-k] = v
		}
	}

	timeData, err := spectrum.Inverse(bins)
	if err != nil {
		return Result{}, fmt.Errorf("reconstruct: %w", err)
	}

	return Result{
		Signal:         timeData[:n],
		SampleInterval: cfg.SampleInterval(n),
	}, nil
}

func sparseLines(req Request) spectrum.Spectrum {
	if !req.AreFrequenciesInHz {
		if len(req.Acc) == 0 {
			return spectrum.Empty()
		}

		freq := make([]float64, len(req.Acc))
		for i := range freq {
			freq[i] = float64(i)
		}

		return spectrum.Spectrum{Frequency: freq, Magnitude: req.Acc}
	}

	return spectrum.SortByFrequency(req.FreqPoint, req.Acc)
}
