// Package window provides the tapering windows applied to vibration records
// before an FFT.
package window

import (
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/algo-vecmath"
)

// Type identifies a window function.
type Type int

const (
	TypeRectangular Type = iota
	TypeHann
	TypeHamming
	TypeFlatTop
)

var (
	hannCoeffs    = []float64{0.5, -0.5}
	hammingCoeffs = []float64{0.54, -0.46}
	flatTopCoeffs = []float64{0.21557895, -0.41663158, 0.277263158, -0.083578947, 0.006947368}
)

// String returns the name accepted by ParseType.
func (t Type) String() string {
	switch t {
	case TypeRectangular:
		return "rectangular"
	case TypeHann:
		return "hann"
	case TypeHamming:
		return "hamming"
	case TypeFlatTop:
		return "flattop"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// ParseType accepts the names returned by String, case-insensitively.
// "none" is an alias for the rectangular window.
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rectangular", "rect", "none":
		return TypeRectangular, nil
	case "hann", "hanning":
		return TypeHann, nil
	case "hamming":
		return TypeHamming, nil
	case "flattop", "flat-top":
		return TypeFlatTop, nil
	default:
		return 0, fmt.Errorf("window: unknown type %q", s)
	}
}

// Generate returns the symmetric window coefficients of the given length.
// A single coefficient is the window value at position 0.
func Generate(t Type, length int) []float64 {
	if length <= 0 {
		return nil
	}

	out := make([]float64, length)
	for i := range out {
		out[i] = evalWindow(t, samplePosition(i, length))
	}

	return out
}

// Apply multiplies buf in-place by the selected window.
func Apply(t Type, buf []float64) {
	if len(buf) == 0 || t == TypeRectangular {
		return
	}

	vecmath.MulBlockInPlace(buf, Generate(t, len(buf)))
}

// Windowed returns a copy of data multiplied by the selected window.
func Windowed(t Type, data []float64) []float64 {
	out := make([]float64, len(data))
	copy(out, data)
	Apply(t, out)

	return out
}

// HannWindow returns a copy of data multiplied by the symmetric Hann window
// 0.5 * (1 - cos(2πi/(N-1))). A single sample is weighted by 0.
func HannWindow(data []float64) []float64 {
	return Windowed(TypeHann, data)
}

func evalWindow(t Type, x float64) float64 {
	switch t {
	case TypeHann:
		return cosineFromCoeffs(x, hannCoeffs)
	case TypeHamming:
		return cosineFromCoeffs(x, hammingCoeffs)
	case TypeFlatTop:
		return cosineFromCoeffs(x, flatTopCoeffs)
	default:
		return 1
	}
}

func cosineFromCoeffs(x float64, coeffs []float64) float64 {
	phase := 2 * math.Pi * x

	sum := 0.0
	for k, c := range coeffs {
		sum += c * math.Cos(float64(k)*phase)
	}

	return sum
}

func samplePosition(n, size int) float64 {
	if size <= 1 {
		return 0
	}

	return float64(n) / float64(size-1)
}
