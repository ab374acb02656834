package core

import "math"

// SampleRateFactor relates the configured maximum frequency to the sampling
// rate of the accelerometer front end: Fs = Fmax * 2.56.
const SampleRateFactor = 2.56

// SensorConfig describes how a single reading was captured. It is fixed for
// the lifetime of one reading.
type SensorConfig struct {
	// Fmax is the analysis bandwidth in Hz.
	Fmax float64
	// LOR is the number of spectral lines (lines of resolution).
	LOR int
	// GScale is the full-scale range of the accelerometer in G (2, 4, 8 or 16).
	GScale int
}

// MaxLOR bounds the lines of resolution a config may request. Larger values
// would allocate records far beyond any real capture.
const MaxLOR = 1 << 17

// SensorOption mutates a SensorConfig.
type SensorOption func(*SensorConfig)

// WithFmax sets the analysis bandwidth.
func WithFmax(fmax float64) SensorOption {
	return func(cfg *SensorConfig) {
		if fmax > 0 && IsFinite(fmax) {
			cfg.Fmax = fmax
		}
	}
}

// WithLOR sets the lines of resolution.
func WithLOR(lor int) SensorOption {
	return func(cfg *SensorConfig) {
		if lor > 0 && lor <= MaxLOR {
			cfg.LOR = lor
		}
	}
}

// WithGScale sets the accelerometer full-scale range.
func WithGScale(gScale int) SensorOption {
	return func(cfg *SensorConfig) {
		if gScale > 0 {
			cfg.GScale = gScale
		}
	}
}

// ApplySensorOptions applies zero or more options on top of base.
func ApplySensorOptions(base SensorConfig, opts ...SensorOption) SensorConfig {
	cfg := base
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// Valid reports whether the config can drive an analysis: Fmax positive with
// a finite sample rate and LOR in (0, MaxLOR].
func (c SensorConfig) Valid() bool {
	return c.Fmax > 0 && IsFinite(c.SampleRate()) && c.LOR > 0 && c.LOR <= MaxLOR
}

// SampleRate returns the sampling frequency Fs = Fmax * 2.56 in Hz.
func (c SensorConfig) SampleRate() float64 {
	return c.Fmax * SampleRateFactor
}

// TotalTime returns the length of the capture window in seconds (LOR / Fmax).
// It returns 0 for an unset Fmax.
func (c SensorConfig) TotalTime() float64 {
	if c.Fmax <= 0 {
		return 0
	}
	return float64(c.LOR) / c.Fmax
}

// ExpectedSamples returns the conventional time-domain sample count for the
// configured LOR, round(LOR * 2.56).
func (c SensorConfig) ExpectedSamples() int {
	if c.LOR <= 0 {
		return 0
	}
	return int(math.Round(float64(c.LOR) * SampleRateFactor))
}

// SampleInterval returns the spacing between n samples spread over the
// capture window, TotalTime / (n-1). It returns 0 when n < 2.
func (c SensorConfig) SampleInterval(n int) float64 {
	if n < 2 {
		return 0
	}
	return c.TotalTime() / float64(n-1)
}

// FrequencyResolution returns the bin spacing Fs / fftSize in Hz.
func (c SensorConfig) FrequencyResolution(fftSize int) float64 {
	if fftSize <= 0 {
		return 0
	}
	return c.SampleRate() / float64(fftSize)
}
