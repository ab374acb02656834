// Command vibinfo analyses a sensor payload file and prints the chart
// summary and peak table.
//
// Usage:
//
//	vibinfo [flags] payload.json
//
// The payload is the JSON document served by the sensor backend. Use "-" to
// read it from stdin.
//
// Examples:
//
//	vibinfo reading.json
//	vibinfo -axis v -unit velocity -peaks 10 reading.json
//	vibinfo -all -unit mm/s2 -window flattop reading.json
//	vibinfo -lor 1600 reading.json
//	vibinfo -json reading.json
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"go.uber.org/zap"

	"github.com/cwbudde/algo-vibe/dsp/core"
	"github.com/cwbudde/algo-vibe/dsp/window"
	vlog "github.com/cwbudde/algo-vibe/internal/log"
	"github.com/cwbudde/algo-vibe/measure/peaks"
	"github.com/cwbudde/algo-vibe/measure/vibration"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type options struct {
	axis       vibration.Axis
	unit       vibration.Unit
	maxPeaks   int
	convention peaks.Convention
	highPassHz float64
	window     window.Type
	fmax       float64
	lor        int
	gScale     int
	allAxes    bool
	asJSON     bool
	path       string
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}

	payload, err := readPayload(opts.path, stdin)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	profile := vibration.DefaultProfile(opts.unit)
	profile.HighPassHz = opts.highPassHz
	if opts.unit != vibration.UnitG {
		profile.Window = opts.window
	}

	analyzer := vibration.NewAnalyzer(
		vibration.WithLogger(vlog.Logger()),
		vibration.WithConvention(opts.convention),
		vibration.WithProfile(profile),
	)

	cfg := core.ApplySensorOptions(payload.SensorConfig(),
		core.WithFmax(opts.fmax),
		core.WithLOR(opts.lor),
		core.WithGScale(opts.gScale),
	)

	axes := []vibration.Axis{opts.axis}
	if opts.allAxes {
		axes = vibration.Axes
	}

	results := make(map[vibration.Axis]vibration.Result, len(axes))
	for _, axis := range axes {
		results[axis] = analyzer.AnalyzeTop(payload.Input(axis), cfg, opts.unit, opts.maxPeaks)
	}

	if opts.asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			_, _ = fmt.Fprintf(stderr, "error: failed to encode output: %v\n", err)
			return 1
		}
		return 0
	}

	if err := printSummary(stdout, axes, results); err != nil {
		_, _ = fmt.Fprintf(stderr, "error: failed to write output: %v\n", err)
		return 1
	}

	for _, axis := range axes {
		if err := printPeaks(stdout, axis, results[axis]); err != nil {
			_, _ = fmt.Fprintf(stderr, "error: failed to write output: %v\n", err)
			return 1
		}
	}

	return 0
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	fs := flag.NewFlagSet("vibinfo", flag.ContinueOnError)
	fs.SetOutput(stderr)

	axis := fs.String("axis", "h", "axis to analyse: h, v or a")
	unit := fs.String("unit", "g", "output unit: g, mm/s2 or velocity")
	maxPeaks := fs.Int("peaks", peaks.DetailPeaks, "number of peaks to report")
	convention := fs.String("convention", "peak", "peak RMS convention: peak or scaled")
	highPass := fs.Float64("highpass", 0, "drift-removal highpass cutoff in Hz (0 = off)")
	win := fs.String("window", "hann", "window for mm/s2 and velocity: hann, hamming, flattop or none")
	fmax := fs.Float64("fmax", 0, "override the payload fmax in Hz (0 = keep)")
	lor := fs.Int("lor", 0, "override the payload lines of resolution (0 = keep)")
	gScale := fs.Int("gscale", 0, "override the payload full-scale range in G (0 = keep)")
	all := fs.Bool("all", false, "analyse all three axes")
	asJSON := fs.Bool("json", false, "print the full result as JSON")
	debug := fs.Bool("debug", false, "enable debug logging")

	fs.Usage = func() {
		_, _ = fmt.Fprintf(stderr, "Usage: vibinfo [flags] payload.json\n\n")
		_, _ = fmt.Fprintf(stderr, "Analyses a sensor payload and prints the chart summary and peak table.\n\n")
		_, _ = fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
		_, _ = fmt.Fprintf(stderr, "\nExamples:\n")
		_, _ = fmt.Fprintf(stderr, "  vibinfo reading.json\n")
		_, _ = fmt.Fprintf(stderr, "  vibinfo -axis v -unit velocity -peaks 10 reading.json\n")
		_, _ = fmt.Fprintf(stderr, "  vibinfo -all -json reading.json\n")
	}

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return options{}, errors.New("expected exactly one payload file")
	}

	var (
		opts = options{
			maxPeaks:   *maxPeaks,
			highPassHz: *highPass,
			fmax:       *fmax,
			lor:        *lor,
			gScale:     *gScale,
			allAxes:    *all,
			asJSON:     *asJSON,
			path:       fs.Arg(0),
		}
		err  error
	)

	if opts.axis, err = vibration.ParseAxis(*axis); err != nil {
		return options{}, err
	}
	if opts.unit, err = vibration.ParseUnit(*unit); err != nil {
		return options{}, err
	}
	if opts.convention, err = peaks.ParseConvention(*convention); err != nil {
		return options{}, err
	}
	if opts.window, err = window.ParseType(*win); err != nil {
		return options{}, err
	}
	if opts.maxPeaks < 0 {
		return options{}, fmt.Errorf("peaks must be >= 0, got %d", opts.maxPeaks)
	}
	if opts.highPassHz < 0 {
		return options{}, fmt.Errorf("highpass must be >= 0, got %v", opts.highPassHz)
	}
	if opts.fmax < 0 || opts.lor < 0 || opts.gScale < 0 {
		return options{}, errors.New("fmax, lor and gscale must be >= 0")
	}
	if opts.lor > core.MaxLOR {
		return options{}, fmt.Errorf("lor must be <= %d, got %d", core.MaxLOR, opts.lor)
	}

	if *debug {
		if err := vlog.Init(true); err != nil {
			return options{}, err
		}
		vlog.Logger().Debug("flags parsed", zap.String("path", opts.path))
	}

	return opts, nil
}

func readPayload(path string, stdin io.Reader) (vibration.Payload, error) {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return vibration.Payload{}, err
		}
		defer f.Close()
		r = f
	}

	var p vibration.Payload
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return vibration.Payload{}, fmt.Errorf("decode %s: %w", path, err)
	}

	return p, nil
}

func printSummary(w io.Writer, axes []vibration.Axis, results map[vibration.Axis]vibration.Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(tw, "Axis\tUnit\tData\tRMS\tPeak\tPeak-Peak\tOverall RMS\tDominant [Hz]\tLines\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(tw, "----\t----\t----\t---\t----\t---------\t-----------\t-------------\t-----\n"); err != nil {
		return err
	}

	for _, axis := range axes {
		res := results[axis]
		if !res.HasData {
			if _, err := fmt.Fprintf(tw, "%s\t%s\tno\t-\t-\t-\t-\t-\t0\n", axis, res.Unit); err != nil {
				return err
			}
			continue
		}

		st := res.FreqData.Stats
		if _, err := fmt.Fprintf(tw, "%s\t%s\tyes\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\t%d\n",
			axis,
			res.Unit,
			res.TimeData.RMSValue,
			res.TimeData.PeakValue,
			res.TimeData.PeakToPeakValue,
			st.OverallRMS,
			st.DominantFrequency,
			st.BinCount,
		); err != nil {
			return err
		}
	}

	return tw.Flush()
}

func printPeaks(w io.Writer, axis vibration.Axis, res vibration.Result) error {
	if len(res.TopPeaks) == 0 {
		return nil
	}

	if _, err := fmt.Fprintf(w, "\nPeaks (%s, %s):\n", axis, res.Unit); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(tw, "#\tFrequency [Hz]\tRMS\tLine\n"); err != nil {
		return err
	}

	for i, p := range res.TopPeaks {
		if _, err := fmt.Fprintf(tw, "%d\t%s\t%s\t%d\n", i+1, p.Frequency, p.RMS, p.Index); err != nil {
			return err
		}
	}

	return tw.Flush()
}
