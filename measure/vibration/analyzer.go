package vibration

import (
	"go.uber.org/zap"

	"github.com/cwbudde/algo-vibe/dsp/core"
	"github.com/cwbudde/algo-vibe/dsp/filter/design"
	"github.com/cwbudde/algo-vibe/dsp/spectrum"
	"github.com/cwbudde/algo-vibe/dsp/units"
	"github.com/cwbudde/algo-vibe/dsp/window"
	"github.com/cwbudde/algo-vibe/measure/peaks"
	"github.com/cwbudde/algo-vibe/measure/reconstruct"
	"github.com/cwbudde/algo-vibe/stats/frequency"
)

// Analyzer runs the vibration pipeline. It holds configuration only and is
// safe for concurrent use.
type Analyzer struct {
	logger     *zap.Logger
	maxPeaks   int
	convention peaks.Convention
	tolerance  float64
	profiles   map[Unit]UnitProfile
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLogger sets the logger used to report computation failures.
func WithLogger(l *zap.Logger) Option {
	return func(a *Analyzer) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithMaxPeaks sets the default number of reported peaks.
func WithMaxPeaks(k int) Option {
	return func(a *Analyzer) {
		if k > 0 {
			a.maxPeaks = k
		}
	}
}

// WithConvention selects the peak RMS reporting convention.
func WithConvention(c peaks.Convention) Option {
	return func(a *Analyzer) {
		a.convention = c
	}
}

// WithPeakTolerance sets the duplicate-peak tolerance in Hz.
func WithPeakTolerance(hz float64) Option {
	return func(a *Analyzer) {
		a.tolerance = hz
	}
}

// WithProfile overrides the processing profile of one unit.
func WithProfile(p UnitProfile) Option {
	return func(a *Analyzer) {
		a.profiles[p.Unit] = p
	}
}

// NewAnalyzer returns an Analyzer reporting peaks.DetailPeaks peaks with the
// PeakAsRMS convention and the default unit profiles.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{
		logger:     zap.NewNop(),
		maxPeaks:   peaks.DetailPeaks,
		convention: peaks.PeakAsRMS,
		tolerance:  -1,
		profiles: map[Unit]UnitProfile{
			UnitG:         DefaultProfile(UnitG),
			UnitMmPerSec2: DefaultProfile(UnitMmPerSec2),
			UnitVelocity:  DefaultProfile(UnitVelocity),
		},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}

	return a
}

// Profile returns the processing profile used for u.
func (a *Analyzer) Profile(u Unit) UnitProfile {
	if p, ok := a.profiles[u]; ok {
		return p
	}

	return DefaultProfile(u)
}

// Analyze runs the pipeline with the analyzer's default peak count.
func (a *Analyzer) Analyze(in Input, cfg core.SensorConfig, unit Unit) Result {
	return a.AnalyzeTop(in, cfg, unit, a.maxPeaks)
}

// AnalyzeTop runs the pipeline reporting at most maxPeaks peaks. It never
// panics: any failure yields [EmptyResult].
func (a *Analyzer) AnalyzeTop(in Input, cfg core.SensorConfig, unit Unit, maxPeaks int) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Warn("analysis panicked, no data",
				zap.String("unit", unit.String()),
				zap.String("kind", in.Kind().String()),
				zap.Any("panic", r))

			res = EmptyResult(unit)
		}
	}()

	if !cfg.Valid() {
		if in.Kind() != KindNone {
			a.logger.Debug("invalid sensor config, no data",
				zap.Float64("fmax", cfg.Fmax), zap.Int("lor", cfg.LOR))
		}

		return EmptyResult(unit)
	}

	switch in.Kind() {
	case KindRawSamples:
		return a.analyzeRaw(in.Samples(), cfg, unit, maxPeaks)
	case KindSparseSpectrum:
		return a.analyzeSparse(in, cfg, unit, maxPeaks)
	default:
		return EmptyResult(unit)
	}
}

func (a *Analyzer) analyzeRaw(adc []float64, cfg core.SensorConfig, unit Unit, maxPeaks int) Result {
	dt := cfg.SampleInterval(len(adc))
	profile := a.Profile(unit)

	series := units.ADCSliceToG(adc, cfg.GScale)
	if profile.HighPassHz > 0 && dt > 0 {
		series = design.HighpassFilter(series, profile.HighPassHz, HighPassOrder, 1/dt)
	}

	switch unit {
	case UnitMmPerSec2:
		series = units.GSliceToMmPerSec2(series)
	case UnitVelocity:
		series = units.AccelerationToVelocity(units.GSliceToMmPerSec2(series), dt)
	}

	if !allFinite(series) {
		a.logger.Warn("unit conversion overflowed, no data",
			zap.String("unit", unit.String()),
			zap.Int("samples", len(series)))

		return EmptyResult(unit)
	}

	fftIn := series
	if profile.RemoveDC {
		fftIn = units.RemoveDC(fftIn)
	}
	fftIn = window.Windowed(profile.Window, fftIn)

	full, err := spectrum.Transform(fftIn, cfg.Fmax)
	if err != nil {
		a.logger.Warn("FFT failed, no data",
			zap.String("unit", unit.String()),
			zap.Int("samples", len(fftIn)),
			zap.Error(err))

		return EmptyResult(unit)
	}

	lines := full.OneSided(cfg.Fmax)

	res := Result{
		HasData:  true,
		Unit:     unit,
		TimeData: newTimeData(series, dt),
	}
	a.fillFrequency(&res, lines, cfg, maxPeaks)

	return res
}

func (a *Analyzer) analyzeSparse(in Input, cfg core.SensorConfig, unit Unit, maxPeaks int) Result {
	var lines spectrum.Spectrum
	if in.inHz {
		lines = spectrum.SortByFrequency(in.freq, in.mag)
	} else {
		lines = indexLines(in.mag, cfg)
	}

	series := make([]float64, lines.Len())
	for i, g := range lines.Magnitude {
		switch unit {
		case UnitMmPerSec2:
			series[i] = units.GToMmPerSec2(g)
		case UnitVelocity:
			series[i] = units.VelocityFromFrequency(units.GToMmPerSec2(g), lines.Frequency[i])
		default:
			series[i] = g
		}
	}
	lines.Magnitude = series

	if !allFinite(series) {
		a.logger.Warn("unit conversion overflowed, no data",
			zap.String("unit", unit.String()),
			zap.Int("lines", len(series)))

		return EmptyResult(unit)
	}

	rec, err := reconstruct.Reconstruct(reconstruct.Request{
		LOR:                cfg.LOR,
		Fmax:               cfg.Fmax,
		Acc:                lines.Magnitude,
		FreqPoint:          lines.Frequency,
		AreFrequenciesInHz: in.inHz,
	})
	if err != nil {
		a.logger.Warn("time reconstruction failed, no data",
			zap.String("unit", unit.String()),
			zap.Int("lines", lines.Len()),
			zap.Error(err))

		return EmptyResult(unit)
	}

	res := Result{
		HasData:  true,
		Unit:     unit,
		TimeData: newTimeData(rec.Signal, rec.SampleInterval),
	}
	a.fillFrequency(&res, lines, cfg, maxPeaks)

	return res
}

func (a *Analyzer) fillFrequency(res *Result, lines spectrum.Spectrum, cfg core.SensorConfig, maxPeaks int) {
	found := peaks.FindTopPeaks(lines.Magnitude, lines.Frequency, cfg.LOR, maxPeaks,
		peaks.WithConvention(a.convention),
		peaks.WithTolerance(a.tolerance),
	)

	res.FreqData = FreqData{
		Labels: lines.Frequency,
		Series: lines.Magnitude,
		Stats:  frequency.Calculate(lines),
	}
	res.TopPeaks = found.TopPeaks
	res.PointBackgroundColor = found.PointBackgroundColor
}

// indexLines places line k at k times the reconstruction bin spacing.
func indexLines(mag []float64, cfg core.SensorConfig) spectrum.Spectrum {
	df := cfg.FrequencyResolution(spectrum.NextPowerOfTwo(cfg.ExpectedSamples()))

	freq := make([]float64, len(mag))
	for i := range freq {
		freq[i] = float64(i) * df
	}

	return spectrum.Spectrum{
		Frequency: freq,
		Magnitude: append([]float64{}, mag...),
	}
}
