package vibration

import (
	"github.com/cwbudde/algo-vibe/measure/peaks"
	"github.com/cwbudde/algo-vibe/stats/frequency"
	timestats "github.com/cwbudde/algo-vibe/stats/time"
)

// TimeData is the time-domain chart section.
type TimeData struct {
	// Labels are sample times in seconds.
	Labels          []float64       `json:"labels"`
	RMSValue        float64         `json:"rmsValue"`
	PeakValue       float64         `json:"peakValue"`
	PeakToPeakValue float64         `json:"peakToPeakValue"`
	Series          []float64       `json:"series"`
	Stats           timestats.Stats `json:"stats"`
}

// FreqData is the frequency-domain chart section.
type FreqData struct {
	// Labels are line frequencies in Hz.
	Labels []float64       `json:"labels"`
	Series []float64       `json:"series"`
	Stats  frequency.Stats `json:"stats"`
}

// Result is the chart-ready outcome of one analysis.
type Result struct {
	HasData              bool         `json:"hasData"`
	Unit                 Unit         `json:"unit"`
	TimeData             TimeData     `json:"timeData"`
	FreqData             FreqData     `json:"freqData"`
	TopPeaks             []peaks.Peak `json:"topPeaks"`
	PointBackgroundColor []string     `json:"pointBackgroundColor"`
}

// EmptyResult returns the "no data" result: HasData false, zero summaries
// and non-nil empty arrays.
func EmptyResult(unit Unit) Result {
	return Result{
		Unit:                 unit,
		TimeData:             emptyTimeData(),
		FreqData:             FreqData{Labels: []float64{}, Series: []float64{}},
		TopPeaks:             []peaks.Peak{},
		PointBackgroundColor: []string{},
	}
}

func emptyTimeData() TimeData {
	return TimeData{Labels: []float64{}, Series: []float64{}}
}

func newTimeData(series []float64, dt float64) TimeData {
	if len(series) == 0 {
		return emptyTimeData()
	}

	labels := make([]float64, len(series))
	for i := range labels {
		labels[i] = float64(i) * dt
	}

	st := timestats.Calculate(series)

	return TimeData{
		Labels:          labels,
		RMSValue:        st.RMS,
		PeakValue:       st.Peak,
		PeakToPeakValue: st.PeakToPeak,
		Series:          series,
		Stats:           st,
	}
}
