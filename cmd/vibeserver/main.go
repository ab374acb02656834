// Command vibeserver serves the vibration analysis API.
//
// Usage:
//
//	vibeserver [-config vibe.yaml] [-env .env]
//
// Settings come from the YAML file, then the .env file, then VIBE_*
// environment variables.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/cwbudde/algo-vibe/dsp/window"
	"github.com/cwbudde/algo-vibe/internal/apiclient"
	"github.com/cwbudde/algo-vibe/internal/config"
	"github.com/cwbudde/algo-vibe/internal/dedupe"
	vlog "github.com/cwbudde/algo-vibe/internal/log"
	"github.com/cwbudde/algo-vibe/internal/server"
	"github.com/cwbudde/algo-vibe/measure/peaks"
	"github.com/cwbudde/algo-vibe/measure/vibration"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML config file")
	envFile := flag.String("env", ".env", "path to an optional .env file")
	flag.Parse()

	cfg, err := config.Load(*configPath, *envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if err := vlog.Init(cfg.Debug); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer vlog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		vlog.Errorw("vibeserver exited", "error", err)
		vlog.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	logger := vlog.Logger()

	store, closeStore, err := newStore(ctx, cfg.Dedupe)
	if err != nil {
		return err
	}
	defer closeStore()

	client := apiclient.New(cfg.Backend.BaseURL, cfg.Backend.Timeout,
		apiclient.WithGroup(dedupe.NewGroup(store, logger.Named("dedupe"))),
		apiclient.WithLogger(logger.Named("backend")),
	)

	convention, err := peaks.ParseConvention(cfg.Analysis.PeakConvention)
	if err != nil {
		return err
	}

	win, err := window.ParseType(cfg.Analysis.Window)
	if err != nil {
		return err
	}

	analyzerOpts := []vibration.Option{
		vibration.WithLogger(logger.Named("analyzer")),
		vibration.WithMaxPeaks(cfg.Analysis.MaxPeaks),
		vibration.WithConvention(convention),
	}
	if cfg.Analysis.PeakToleranceHz > 0 {
		analyzerOpts = append(analyzerOpts, vibration.WithPeakTolerance(cfg.Analysis.PeakToleranceHz))
	}
	for _, u := range []vibration.Unit{vibration.UnitG, vibration.UnitMmPerSec2, vibration.UnitVelocity} {
		p := vibration.DefaultProfile(u)
		p.RemoveDC = cfg.Analysis.RemoveDC
		p.HighPassHz = cfg.Analysis.HighPassHz
		if u != vibration.UnitG {
			p.Window = win
		}
		analyzerOpts = append(analyzerOpts, vibration.WithProfile(p))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	srv := server.New(vibration.NewAnalyzer(analyzerOpts...), client,
		server.WithLogger(logger.Named("http")),
		server.WithRegistry(reg),
	)

	return srv.Run(ctx, cfg.Server)
}

func newStore(ctx context.Context, cfg config.Dedupe) (dedupe.Store, func(), error) {
	if cfg.RedisAddr == "" {
		vlog.Infow("dedupe store", "kind", "memory", "ttl", cfg.TTL, "size", cfg.Size)
		return dedupe.NewMemoryStore(cfg.Size, cfg.TTL), func() {}, nil
	}

	rs, err := dedupe.NewRedisStore(ctx, cfg.RedisAddr, cfg.KeyPrefix, cfg.TTL)
	if err != nil {
		return nil, nil, err
	}

	vlog.Infow("dedupe store", "kind", "redis", "addr", cfg.RedisAddr, "ttl", cfg.TTL)
	return rs, func() {
		if err := rs.Close(); err != nil {
			vlog.Logger().Warn("close redis", zap.Error(err))
		}
	}, nil
}
