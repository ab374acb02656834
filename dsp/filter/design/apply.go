package design

import "github.com/cwbudde/algo-vibe/dsp/filter/biquad"

// HighpassFilter returns a filtered copy of signal. It returns a plain copy
// when the cutoff cannot be realised at sampleRate or a section degenerates.
func HighpassFilter(signal []float64, cutoffHz float64, order int, sampleRate float64) []float64 {
	out := append([]float64(nil), signal...)

	coeffs := ButterworthHP(cutoffHz, order, sampleRate)
	if len(coeffs) == 0 {
		return out
	}
	for _, c := range coeffs {
		if c.IsZero() {
			return out
		}
	}

	biquad.NewChain(coeffs).ProcessBlock(out)
	return out
}
