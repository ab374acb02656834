// Package time summarises time-domain vibration records.
package time

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats holds time-domain signal statistics.
type Stats struct {
	Length      int     `json:"length"`
	Mean        float64 `json:"mean"`
	RMS         float64 `json:"rms"`
	Max         float64 `json:"max"`
	MaxPos      int     `json:"maxPos"`
	Min         float64 `json:"min"`
	MinPos      int     `json:"minPos"`
	Peak        float64 `json:"peak"`       // max(|max|, |min|)
	PeakToPeak  float64 `json:"peakToPeak"` // max - min
	CrestFactor float64 `json:"crestFactor"`
	Variance    float64 `json:"variance"`
	// Kurtosis is the sample excess kurtosis, 0 for fewer than 4 samples or
	// a constant record.
	Kurtosis float64 `json:"kurtosis"`
}

// Calculate computes all statistics of signal. An empty signal yields the
// zero Stats.
func Calculate(signal []float64) Stats {
	n := len(signal)
	if n == 0 {
		return Stats{}
	}

	maxPos := floats.MaxIdx(signal)
	minPos := floats.MinIdx(signal)
	maxVal := signal[maxPos]
	minVal := signal[minPos]

	mean, variance := stat.PopMeanVariance(signal, nil)
	rms := math.Sqrt(floats.Dot(signal, signal) / float64(n))
	peak := math.Max(math.Abs(maxVal), math.Abs(minVal))

	s := Stats{
		Length:     n,
		Mean:       mean,
		RMS:        rms,
		Max:        maxVal,
		MaxPos:     maxPos,
		Min:        minVal,
		MinPos:     minPos,
		Peak:       peak,
		PeakToPeak: maxVal - minVal,
		Variance:   variance,
	}

	if rms > 0 {
		s.CrestFactor = peak / rms
	}

	if n >= 4 && variance > 0 {
		if k := stat.ExKurtosis(signal, nil); !math.IsNaN(k) && !math.IsInf(k, 0) {
			s.Kurtosis = k
		}
	}

	return s
}

// RMS returns the root-mean-square of the signal, 0 when empty.
func RMS(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}

	return math.Sqrt(floats.Dot(signal, signal) / float64(len(signal)))
}

// Peak returns the peak absolute amplitude of the signal.
func Peak(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}

	return math.Max(math.Abs(floats.Max(signal)), math.Abs(floats.Min(signal)))
}

// PeakToPeak returns max - min of the signal.
func PeakToPeak(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}

	return floats.Max(signal) - floats.Min(signal)
}

// CrestFactor returns the crest factor (peak / RMS) of the signal.
// Returns 0 if RMS is zero.
func CrestFactor(signal []float64) float64 {
	r := RMS(signal)
	if r == 0 {
		return 0
	}

	return Peak(signal) / r
}
