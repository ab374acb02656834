// Package vibration runs the full analysis of one accelerometer reading:
// unit conversion, optional DC removal and windowing, FFT, peak detection and
// chart-ready time and frequency series.
//
// A reading arrives either as raw ADC samples or as a sparse pre-computed
// spectrum. The shape is resolved once into an [Input]; everything after that
// point is a pure function of the Input, the [core.SensorConfig] and the
// selected [Unit]. Missing data and transform failures never surface as
// errors: [Analyzer.Analyze] returns [EmptyResult] instead.
package vibration
