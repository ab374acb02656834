// Package peaks finds the dominant lines of an amplitude spectrum.
//
// Candidates are strict local maxima. They are ranked by magnitude and
// accepted greedily, skipping any candidate whose frequency falls within the
// bucket tolerance of a line that was already accepted, so that the reported
// peaks are distinct spectral features rather than neighbouring bins of one
// lobe.
package peaks

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Common values for the number of reported peaks.
const (
	DetailPeaks  = 5
	ChartPeaks   = 10
	SummaryPeaks = 1
)

// RMSScale converts a peak amplitude into an RMS estimate.
const RMSScale = 0.707

// Convention selects how a peak magnitude is reported as RMS.
type Convention int

const (
	// PeakAsRMS reports the spectral magnitude unchanged.
	PeakAsRMS Convention = iota
	// PeakScaledRMS multiplies the spectral magnitude by RMSScale.
	PeakScaledRMS
)

// String returns the convention name.
func (c Convention) String() string {
	switch c {
	case PeakAsRMS:
		return "peak-as-rms"
	case PeakScaledRMS:
		return "peak-scaled-rms"
	default:
		return "unknown"
	}
}

// ParseConvention accepts the String names and the short forms "peak" and
// "scaled".
func ParseConvention(s string) (Convention, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "peak", "peak-as-rms":
		return PeakAsRMS, nil
	case "scaled", "peak-scaled-rms":
		return PeakScaledRMS, nil
	default:
		return PeakAsRMS, fmt.Errorf("peaks: unknown convention %q", s)
	}
}

// Apply converts magnitude according to the convention.
func (c Convention) Apply(magnitude float64) float64 {
	if c == PeakScaledRMS {
		return magnitude * RMSScale
	}

	return magnitude
}

// Marker colours for peak and non-peak indices.
const (
	DefaultPeakColor  = "rgba(255, 99, 132, 1)"
	DefaultPlainColor = "rgba(0, 0, 0, 0)"
)

// DefaultBucketLines is the default duplicate tolerance in spectral lines.
const DefaultBucketLines = 2

// Peak is one accepted spectral line.
type Peak struct {
	Index       int     `json:"index"`
	FrequencyHz float64 `json:"frequencyHz"`
	Magnitude   float64 `json:"magnitude"`
	// RMS is the reported magnitude formatted with 2 decimals.
	RMS string `json:"rms"`
	// Frequency is the label formatted with 4 decimals.
	Frequency string `json:"frequency"`
}

// Result holds the accepted peaks and a per-index colour array for chart
// markers.
type Result struct {
	TopPeaks             []Peak   `json:"topPeaks"`
	PointBackgroundColor []string `json:"pointBackgroundColor"`
}

// Option configures peak detection.
type Option func(*config)

type config struct {
	convention Convention
	tolerance  float64
}

func defaultConfig() config {
	return config{
		convention: PeakAsRMS,
		tolerance:  -1,
	}
}

// WithConvention selects the RMS reporting convention.
func WithConvention(c Convention) Option {
	return func(cfg *config) {
		cfg.convention = c
	}
}

// WithTolerance sets the duplicate tolerance in Hz. Negative values restore
// the LOR-derived default.
func WithTolerance(hz float64) Option {
	return func(cfg *config) {
		if !math.IsNaN(hz) {
			cfg.tolerance = hz
		}
	}
}

// FindTopPeaks returns at most maxPeaks distinct local maxima of magnitude,
// largest first.
//
// labels holds the frequency of each magnitude entry. lor sizes the default
// duplicate tolerance: DefaultBucketLines lines of max(labels)/lor Hz.
// The colour array always has len(magnitude) entries.
func FindTopPeaks(magnitude, labels []float64, lor, maxPeaks int, opts ...Option) Result {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	colors := make([]string, len(magnitude))
	for i := range colors {
		colors[i] = DefaultPlainColor
	}

	res := Result{TopPeaks: []Peak{}, PointBackgroundColor: colors}
	if maxPeaks <= 0 || len(magnitude) < 3 || len(labels) < len(magnitude) {
		return res
	}

	candidates := localMaxima(magnitude)
	if len(candidates) == 0 {
		return res
	}

	sort.SliceStable(candidates, func(a, b int) bool {
		return magnitude[candidates[a]] > magnitude[candidates[b]]
	})

	tolerance := cfg.tolerance
	if tolerance < 0 {
		tolerance = defaultTolerance(labels[:len(magnitude)], lor)
	}

	accepted := make([]float64, 0, maxPeaks)
	for _, idx := range candidates {
		if len(res.TopPeaks) >= maxPeaks {
			break
		}

		freq := labels[idx]
		if isDuplicate(freq, accepted, tolerance) {
			continue
		}

		accepted = append(accepted, freq)

		reported := cfg.convention.Apply(magnitude[idx])
		res.TopPeaks = append(res.TopPeaks, Peak{
			Index:       idx,
			FrequencyHz: freq,
			Magnitude:   reported,
			RMS:         strconv.FormatFloat(reported, 'f', 2, 64),
			Frequency:   strconv.FormatFloat(freq, 'f', 4, 64),
		})
		colors[idx] = DefaultPeakColor
	}

	return res
}

// ParseLabel converts a chart label such as "12.5000" to its frequency in
// Hz. A label that does not parse yields NaN, which never joins a duplicate
// bucket.
func ParseLabel(label string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(label), 64)
	if err != nil {
		return math.NaN()
	}

	return v
}

func localMaxima(magnitude []float64) []int {
	var out []int
	for i := 1; i < len(magnitude)-1; i++ {
		if magnitude[i] > magnitude[i-1] && magnitude[i] > magnitude[i+1] {
			out = append(out, i)
		}
	}

	return out
}

func defaultTolerance(labels []float64, lor int) float64 {
	if lor <= 0 {
		return 0
	}

	maxLabel := 0.0
	for _, l := range labels {
		if l > maxLabel {
			maxLabel = l
		}
	}

	return DefaultBucketLines * maxLabel / float64(lor)
}

func isDuplicate(freq float64, accepted []float64, tolerance float64) bool {
	if math.IsNaN(freq) {
		return false
	}

	for _, f := range accepted {
		if math.Abs(freq-f) <= tolerance {
			return true
		}
	}

	return false
}
