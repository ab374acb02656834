package spectrum

import (
	"sort"

	"github.com/cwbudde/algo-vibe/dsp/core"
)

// Spectrum holds parallel frequency (Hz, ascending) and magnitude arrays of
// equal length.
type Spectrum struct {
	Frequency []float64 `json:"frequency"`
	Magnitude []float64 `json:"magnitude"`
}

// Empty returns the "no data" spectrum with non-nil zero-length arrays.
func Empty() Spectrum {
	return Spectrum{Frequency: []float64{}, Magnitude: []float64{}}
}

// Len returns the number of bins.
func (s Spectrum) Len() int { return len(s.Magnitude) }

// IsEmpty reports whether the spectrum carries no bins.
func (s Spectrum) IsEmpty() bool { return len(s.Magnitude) == 0 || len(s.Frequency) == 0 }

// OneSided returns the positive-frequency half of a full FFT spectrum,
// dropping the DC bin and the mirrored upper half. When maxHz > 0 bins above
// maxHz are dropped as well.
func (s Spectrum) OneSided(maxHz float64) Spectrum {
	n := s.Len()
	if n < 2 || len(s.Frequency) != n {
		return Empty()
	}

	out := Spectrum{
		Frequency: make([]float64, 0, n/2),
		Magnitude: make([]float64, 0, n/2),
	}

	for i := 1; i <= n/2; i++ {
		if f := s.Frequency[i]; maxHz > 0 && f > maxHz && !core.NearlyEqual(f, maxHz, 1e-12) {
			break
		}

		out.Frequency = append(out.Frequency, s.Frequency[i])
		out.Magnitude = append(out.Magnitude, s.Magnitude[i])
	}

	return out
}

// SortByFrequency pairs freq and mag and returns them ordered by ascending
// frequency. Equal frequencies keep their input order. When the arrays differ
// in length the longer one is truncated.
func SortByFrequency(freq, mag []float64) Spectrum {
	n := min(len(freq), len(mag))
	if n == 0 {
		return Empty()
	}

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}

	sort.SliceStable(idx, func(a, b int) bool {
		return freq[idx[a]] < freq[idx[b]]
	})

	out := Spectrum{
		Frequency: make([]float64, n),
		Magnitude: make([]float64, n),
	}
	for i, j := range idx {
		out.Frequency[i] = freq[j]
		out.Magnitude[i] = mag[j]
	}

	return out
}
