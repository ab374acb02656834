package vibration

import "github.com/cwbudde/algo-vibe/measure/peaks"

// AxisSummary condenses one axis to its overall level and dominant line.
type AxisSummary struct {
	Axis       Axis    `json:"axis"`
	HasData    bool    `json:"hasData"`
	OverallRMS float64 `json:"overallRms"`
	TimeRMS    float64 `json:"timeRms"`
	// TopPeak is nil when the axis has no local maximum.
	TopPeak *peaks.Peak `json:"topPeak"`
}

// Summary holds one AxisSummary per axis, in Axes order.
type Summary struct {
	Unit Unit          `json:"unit"`
	Axes []AxisSummary `json:"axes"`
}

// Summarize analyses every axis of p and keeps the single strongest peak per
// axis.
func (a *Analyzer) Summarize(p Payload, unit Unit) Summary {
	cfg := p.SensorConfig()

	out := Summary{Unit: unit, Axes: make([]AxisSummary, 0, len(Axes))}
	for _, axis := range Axes {
		res := a.AnalyzeTop(p.Input(axis), cfg, unit, peaks.SummaryPeaks)

		s := AxisSummary{
			Axis:       axis,
			HasData:    res.HasData,
			OverallRMS: res.FreqData.Stats.OverallRMS,
			TimeRMS:    res.TimeData.RMSValue,
		}
		if len(res.TopPeaks) > 0 {
			top := res.TopPeaks[0]
			s.TopPeak = &top
		}

		out.Axes = append(out.Axes, s)
	}

	return out
}
