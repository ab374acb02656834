package vibration

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/cwbudde/algo-vibe/dsp/core"
	"github.com/cwbudde/algo-vibe/measure/peaks"
)

// Axis identifies one accelerometer axis.
type Axis string

const (
	AxisHorizontal Axis = "h"
	AxisVertical   Axis = "v"
	AxisAxial      Axis = "a"
)

// Axes lists all axes in display order.
var Axes = []Axis{AxisHorizontal, AxisVertical, AxisAxial}

// ParseAxis accepts "h", "v", "a" and their long names, case-insensitively.
func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "h", "horizontal":
		return AxisHorizontal, nil
	case "v", "vertical":
		return AxisVertical, nil
	case "a", "axial":
		return AxisAxial, nil
	default:
		return "", fmt.Errorf("vibration: unknown axis %q", s)
	}
}

// Kind tags the variant held by an Input.
type Kind int

const (
	KindNone Kind = iota
	KindRawSamples
	KindSparseSpectrum
)

// String returns the metric label of the kind.
func (k Kind) String() string {
	switch k {
	case KindRawSamples:
		return "raw"
	case KindSparseSpectrum:
		return "sparse"
	default:
		return "none"
	}
}

// Input is either a raw ADC record or a sparse spectrum. The zero value
// carries no data.
type Input struct {
	kind Kind
	adc  []float64
	freq []float64
	mag  []float64
	inHz bool
}

// NewRawInput wraps raw ADC counts. An empty record, or one holding NaN or
// an infinity, yields an Input of kind KindNone.
func NewRawInput(adc []float64) Input {
	if len(adc) == 0 || !allFinite(adc) {
		return Input{}
	}

	return Input{kind: KindRawSamples, adc: adc}
}

// NewSparseInput wraps a sparse spectrum in G. When inHz is false the
// frequency values are ignored and the position of each magnitude is its
// line index. A non-finite magnitude or Hz value yields KindNone.
func NewSparseInput(freq, mag []float64, inHz bool) Input {
	if len(mag) == 0 || (inHz && len(freq) == 0) {
		return Input{}
	}

	if !allFinite(mag) || (inHz && !allFinite(freq)) {
		return Input{}
	}

	return Input{kind: KindSparseSpectrum, freq: freq, mag: mag, inHz: inHz}
}

// Kind returns the variant tag.
func (in Input) Kind() Kind { return in.kind }

// Samples returns the raw ADC record, nil unless Kind is KindRawSamples.
func (in Input) Samples() []float64 { return in.adc }

// Payload is the per-reading JSON document served by the sensor backend.
type Payload struct {
	AccH []float64 `json:"acc_h,omitempty"`
	AccV []float64 `json:"acc_v,omitempty"`
	AccA []float64 `json:"acc_a,omitempty"`

	AHData []float64 `json:"a_h_data,omitempty"`
	AVData []float64 `json:"a_v_data,omitempty"`
	AAData []float64 `json:"a_a_data,omitempty"`

	FPointH FrequencyPoints `json:"f_point_h,omitempty"`
	FPointV FrequencyPoints `json:"f_point_v,omitempty"`
	FPointA FrequencyPoints `json:"f_point_a,omitempty"`

	// FreqInHz marks f_point_* as Hz values. Absent means Hz whenever
	// frequency points are present.
	FreqInHz *bool `json:"freq_in_hz,omitempty"`

	Fmax   float64 `json:"fmax"`
	LOR    int     `json:"lor"`
	GScale int     `json:"g_scale"`
}

// FrequencyPoints holds line frequencies in Hz. Backends send them either as
// numbers or as chart label strings ("12.5000"); both decode to Hz. A label
// that does not parse becomes NaN, which marks the axis as missing data.
type FrequencyPoints []float64

// UnmarshalJSON accepts an array mixing numbers and label strings.
func (f *FrequencyPoints) UnmarshalJSON(data []byte) error {
	var raw []any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	return f.set(raw)
}

// DecodeMsgpack accepts an array mixing numbers and label strings.
func (f *FrequencyPoints) DecodeMsgpack(dec *msgpack.Decoder) error {
	v, err := dec.DecodeInterfaceLoose()
	if err != nil {
		return err
	}

	if v == nil {
		*f = nil
		return nil
	}

	raw, ok := v.([]any)
	if !ok {
		return fmt.Errorf("vibration: frequency points: want array, got %T", v)
	}

	return f.set(raw)
}

func (f *FrequencyPoints) set(raw []any) error {
	if raw == nil {
		*f = nil
		return nil
	}

	out := make(FrequencyPoints, len(raw))
	for i, v := range raw {
		switch x := v.(type) {
		case float64:
			out[i] = x
		case int64:
			out[i] = float64(x)
		case uint64:
			out[i] = float64(x)
		case string:
			out[i] = peaks.ParseLabel(x)
		default:
			return fmt.Errorf("vibration: frequency point %d: unsupported %T", i, v)
		}
	}

	*f = out
	return nil
}

// SensorConfig returns the capture settings of the payload.
func (p Payload) SensorConfig() core.SensorConfig {
	return core.SensorConfig{Fmax: p.Fmax, LOR: p.LOR, GScale: p.GScale}
}

// Input resolves the payload into the Input for one axis. Raw samples win
// over a sparse spectrum when both are present.
func (p Payload) Input(axis Axis) Input {
	raw, mag, freq := p.axisData(axis)
	if len(raw) > 0 {
		return NewRawInput(raw)
	}

	inHz := len(freq) > 0
	if p.FreqInHz != nil {
		inHz = *p.FreqInHz && inHz
	}

	return NewSparseInput(freq, mag, inHz)
}

func (p Payload) axisData(axis Axis) (raw, mag, freq []float64) {
	switch axis {
	case AxisHorizontal:
		return p.AccH, p.AHData, p.FPointH
	case AxisVertical:
		return p.AccV, p.AVData, p.FPointV
	case AxisAxial:
		return p.AccA, p.AAData, p.FPointA
	default:
		return nil, nil, nil
	}
}

func allFinite(x []float64) bool {
	for _, v := range x {
		if !core.IsFinite(v) {
			return false
		}
	}

	return true
}
