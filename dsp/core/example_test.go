package core_test

import (
	"fmt"

	"github.com/cwbudde/algo-vibe/dsp/core"
)

func ExampleApplySensorOptions() {
	payload := core.SensorConfig{Fmax: 500, LOR: 800, GScale: 2}
	cfg := core.ApplySensorOptions(payload,
		core.WithFmax(1000),
		core.WithLOR(1600),
	)

	fmt.Printf("fs=%.0f window=%.1fs samples=%d\n", cfg.SampleRate(), cfg.TotalTime(), cfg.ExpectedSamples())

	// Output:
	// fs=2560 window=1.6s samples=4096
}

func ExampleEnsureLen() {
	buf := make([]float64, 2, 4)
	buf[0], buf[1] = 1, 2

	buf = core.EnsureLen(buf, 4)
	fmt.Println(len(buf), cap(buf), buf)

	// Output:
	// 4 4 [1 2 0 0]
}
