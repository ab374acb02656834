package vibration

import (
	"fmt"
	"strings"

	"github.com/cwbudde/algo-vibe/dsp/window"
)

// Unit selects the physical quantity of the analysed series.
type Unit int

const (
	// UnitG is acceleration in G.
	UnitG Unit = iota
	// UnitMmPerSec2 is acceleration in mm/s².
	UnitMmPerSec2
	// UnitVelocity is velocity in mm/s.
	UnitVelocity
)

// String returns the unit label used in query strings and charts.
func (u Unit) String() string {
	switch u {
	case UnitG:
		return "g"
	case UnitMmPerSec2:
		return "mm/s2"
	case UnitVelocity:
		return "mm/s"
	default:
		return fmt.Sprintf("Unit(%d)", int(u))
	}
}

// MarshalText encodes the unit label.
func (u Unit) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// ParseUnit accepts the labels returned by String plus common aliases.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "g", "acc", "acceleration":
		return UnitG, nil
	case "mm/s2", "mm/s^2", "mm/s²", "mm", "accel_mm":
		return UnitMmPerSec2, nil
	case "mm/s", "velocity", "vel":
		return UnitVelocity, nil
	default:
		return 0, fmt.Errorf("vibration: unknown unit %q", s)
	}
}

// UnitProfile holds the per-unit pre-FFT processing. G spectra are not
// windowed; mm/s² and velocity spectra are Hann windowed.
type UnitProfile struct {
	Unit Unit
	// Window tapers the record before the FFT. TypeRectangular leaves it
	// untouched.
	Window   window.Type
	RemoveDC bool
	// HighPassHz enables a HighPassOrder Butterworth highpass on the raw
	// acceleration record before integration. 0 disables it.
	HighPassHz float64
}

// HighPassOrder is the order of the drift-removal highpass.
const HighPassOrder = 2

// DefaultProfile returns the standard processing for u.
func DefaultProfile(u Unit) UnitProfile {
	p := UnitProfile{Unit: u, Window: window.TypeHann}
	if u == UnitG {
		p.Window = window.TypeRectangular
	}

	return p
}

// UnmarshalText decodes a unit label accepted by ParseUnit.
func (u *Unit) UnmarshalText(text []byte) error {
	parsed, err := ParseUnit(string(text))
	if err != nil {
		return err
	}

	*u = parsed
	return nil
}
