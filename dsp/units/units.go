package units

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// StandardGravity is one G expressed in mm/s².
const StandardGravity = 9806.65

// Sensitivity returns the ADC counts per G for a full-scale range in G.
// Unknown ranges fall back to the ±2 G sensitivity.
func Sensitivity(gRange int) float64 {
	switch gRange {
	case 2:
		return 16384
	case 4:
		return 8192
	case 8:
		return 4096
	case 16:
		return 2048
	default:
		return 16384
	}
}

// ADCToG converts a raw ADC count to acceleration in G.
func ADCToG(adc float64, gRange int) float64 {
	return adc / Sensitivity(gRange)
}

// GToADC converts acceleration in G back to ADC counts. The result is not
// rounded.
func GToADC(g float64, gRange int) float64 {
	return g * Sensitivity(gRange)
}

// GToMmPerSec2 converts acceleration in G to mm/s².
func GToMmPerSec2(g float64) float64 {
	return g * StandardGravity
}

// ADCSliceToG converts a slice of ADC counts to G.
func ADCSliceToG(adc []float64, gRange int) []float64 {
	if len(adc) == 0 {
		return []float64{}
	}

	out := make([]float64, len(adc))
	floats.ScaleTo(out, 1/Sensitivity(gRange), adc)

	return out
}

// GSliceToMmPerSec2 converts a slice of G values to mm/s².
func GSliceToMmPerSec2(g []float64) []float64 {
	if len(g) == 0 {
		return []float64{}
	}

	out := make([]float64, len(g))
	floats.ScaleTo(out, StandardGravity, g)

	return out
}

// AccelerationToVelocity converts acceleration samples (mm/s²) taken every dt
// seconds into velocity samples (mm/s).
//
// Each output sample is the trapezoid between two consecutive inputs,
// v[i+1] = dt/2 * (a[i] + a[i+1]). The values are not accumulated. v[0] is
// always 0 because no initial condition is known.
func AccelerationToVelocity(accel []float64, dt float64) []float64 {
	if len(accel) == 0 {
		return []float64{}
	}

	out := make([]float64, len(accel))
	for i := 0; i < len(accel)-1; i++ {
		out[i+1] = 0.5 * dt * (accel[i] + accel[i+1])
	}

	return out
}

// VelocityFromFrequency converts a spectral acceleration amplitude (mm/s²)
// at frequencyHz into a velocity amplitude (mm/s). The DC line has no defined
// velocity and returns 0.
func VelocityFromFrequency(accel, frequencyHz float64) float64 {
	if frequencyHz == 0 {
		return 0
	}

	return accel / (2 * math.Pi * frequencyHz)
}

// RemoveDC returns a copy of signal with its mean subtracted.
func RemoveDC(signal []float64) []float64 {
	out := make([]float64, len(signal))
	if len(signal) == 0 {
		return out
	}

	copy(out, signal)
	floats.AddConst(-stat.Mean(signal, nil), out)

	return out
}
