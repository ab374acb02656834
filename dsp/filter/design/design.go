package design

import (
	"math"

	"github.com/cwbudde/algo-vibe/dsp/core"
	"github.com/cwbudde/algo-vibe/dsp/filter/biquad"
)

const defaultQ = 1 / math.Sqrt2

// Highpass designs an RBJ highpass biquad. Cutoffs outside (0, Nyquist)
// yield zero coefficients.
func Highpass(freq, q, sampleRate float64) biquad.Coefficients {
	w0, ok := normalizedW0(freq, sampleRate)
	if !ok {
		return biquad.Coefficients{}
	}

	if q <= 0 || !core.IsFinite(q) {
		q = defaultQ
	}

	cw := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * q)

	return normalize(
		(1+cw)/2, -(1 + cw), (1+cw)/2,
		1+alpha, -2*cw, 1-alpha,
	)
}

// ButterworthHP designs a highpass Butterworth cascade. Odd orders end with
// a first-order section (B2 = A2 = 0). An invalid cutoff or order yields nil.
func ButterworthHP(freq float64, order int, sampleRate float64) []biquad.Coefficients {
	if order <= 0 {
		return nil
	}
	if _, ok := normalizedW0(freq, sampleRate); !ok {
		return nil
	}

	sections := make([]biquad.Coefficients, 0, (order+1)/2)
	for i := order/2 - 1; i >= 0; i-- {
		sections = append(sections, Highpass(freq, butterworthQ(order, i), sampleRate))
	}

	if order%2 != 0 {
		k := math.Tan(math.Pi * freq / sampleRate)
		norm := 1 / (1 + k)
		sections = append(sections, biquad.Coefficients{B0: norm, B1: -norm, A1: (k - 1) * norm})
	}

	return sections
}

func butterworthQ(order, index int) float64 {
	theta := math.Pi * float64(2*index+1) / (2 * float64(order))

	s := math.Sin(theta)
	if s == 0 {
		return defaultQ
	}

	return 1 / (2 * s)
}

func normalizedW0(freq, sampleRate float64) (float64, bool) {
	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		return 0, false
	}

	if freq <= 0 || freq >= sampleRate/2 || !core.IsFinite(freq) {
		return 0, false
	}

	return 2 * math.Pi * freq / sampleRate, true
}

func normalize(b0, b1, b2, a0, a1, a2 float64) biquad.Coefficients {
	if a0 == 0 || !core.IsFinite(a0) {
		return biquad.Coefficients{}
	}

	return biquad.Coefficients{B0: b0 / a0, B1: b1 / a0, B2: b2 / a0, A1: a1 / a0, A2: a2 / a0}
}
