// Package frequency summarises amplitude spectra whose lines carry explicit
// frequencies, as produced by an FFT or returned by a sensor backend.
package frequency

import (
	"math"

	"github.com/cwbudde/algo-vibe/dsp/core"
	"github.com/cwbudde/algo-vibe/dsp/spectrum"
)

// Stats holds frequency-domain statistics computed from an amplitude spectrum.
type Stats struct {
	BinCount int     `json:"binCount"`
	Max      float64 `json:"max"`
	MaxBin   int     `json:"maxBin"`
	// DominantFrequency is the frequency of the largest line (Hz).
	DominantFrequency float64 `json:"dominantFrequency"`
	// OverallRMS combines all lines as sinusoid amplitudes: sqrt(sum(A²)/2).
	OverallRMS float64 `json:"overallRms"`
	Centroid   float64 `json:"centroid"`  // amplitude-weighted mean frequency (Hz)
	Rolloff    float64 `json:"rolloff"`   // frequency below which 85% of the energy lies (Hz)
	Bandwidth  float64 `json:"bandwidth"` // 3 dB width around the dominant line (Hz)
}

// RolloffFraction is the energy fraction used by [Stats.Rolloff].
const RolloffFraction = 0.85

// Calculate computes all statistics of s. Lines must be sorted by ascending
// frequency. An empty or malformed spectrum yields the zero Stats.
func Calculate(s spectrum.Spectrum) Stats {
	n := s.Len()
	if n == 0 || len(s.Frequency) != n {
		return Stats{}
	}

	st := Stats{BinCount: n, Max: s.Magnitude[0]}

	sum, energy := 0.0, 0.0
	for i, v := range s.Magnitude {
		sum += v
		energy += v * v
		if v > st.Max {
			st.Max = v
			st.MaxBin = i
		}
	}

	st.DominantFrequency = s.Frequency[st.MaxBin]
	st.OverallRMS = math.Sqrt(energy / 2)
	st.Centroid = centroid(s, sum)
	st.Rolloff = rolloff(s, RolloffFraction, energy)
	st.Bandwidth = bandwidth(s, st.MaxBin)

	return st
}

// OverallRMS returns sqrt(sum(A²)/2) over the magnitudes.
func OverallRMS(magnitude []float64) float64 {
	energy := 0.0
	for _, v := range magnitude {
		energy += v * v
	}

	return math.Sqrt(energy / 2)
}

// Centroid returns the spectral centroid in Hz.
//
//	centroid = sum(f_i * |X_i|) / sum(|X_i|)
func Centroid(s spectrum.Spectrum) float64 {
	sum := 0.0
	for _, v := range s.Magnitude {
		sum += v
	}

	return centroid(s, sum)
}

func centroid(s spectrum.Spectrum, sumMag float64) float64 {
	if len(s.Frequency) != len(s.Magnitude) {
		return 0
	}

	weightedSum := 0.0
	for i, v := range s.Magnitude {
		weightedSum += s.Frequency[i] * v
	}

	return core.SafeDiv(weightedSum, sumMag)
}

func rolloff(s spectrum.Spectrum, percent, totalEnergy float64) float64 {
	if totalEnergy == 0 {
		return 0
	}

	threshold := percent * totalEnergy
	cumEnergy := 0.0
	for i, v := range s.Magnitude {
		cumEnergy += v * v
		if cumEnergy >= threshold {
			return s.Frequency[i]
		}
	}

	return s.Frequency[len(s.Frequency)-1]
}

func bandwidth(s spectrum.Spectrum, peakBin int) float64 {
	n := s.Len()
	peakVal := s.Magnitude[peakBin]
	if n < 2 || peakVal <= 0 {
		return 0
	}

	threshold := peakVal / math.Sqrt2

	lowerFreq := s.Frequency[0]
	for i := peakBin; i >= 1; i-- {
		if s.Magnitude[i-1] <= threshold && s.Magnitude[i] > threshold {
			lowerFreq = interpFreq(s, i-1, i, threshold)
			break
		}
	}

	upperFreq := s.Frequency[n-1]
	for i := peakBin; i < n-1; i++ {
		if s.Magnitude[i+1] <= threshold && s.Magnitude[i] > threshold {
			upperFreq = interpFreq(s, i, i+1, threshold)
			break
		}
	}

	bw := upperFreq - lowerFreq
	if bw < 0 {
		return 0
	}
	return bw
}

// interpFreq linearly interpolates the frequency where the magnitude crosses
// threshold between two lines.
func interpFreq(s spectrum.Spectrum, lo, hi int, threshold float64) float64 {
	fLow, fHigh := s.Frequency[lo], s.Frequency[hi]

	denom := s.Magnitude[hi] - s.Magnitude[lo]
	if denom == 0 {
		return (fLow + fHigh) / 2
	}

	t := (threshold - s.Magnitude[lo]) / denom
	return fLow + t*(fHigh-fLow)
}
