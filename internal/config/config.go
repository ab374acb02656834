// Package config loads service settings from a YAML file, an optional .env
// file and VIBE_* environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-vibe/dsp/window"
	"github.com/cwbudde/algo-vibe/measure/peaks"
)

// Config is the service configuration.
type Config struct {
	Debug    bool     `yaml:"debug"`
	Server   Server   `yaml:"server"`
	Backend  Backend  `yaml:"backend"`
	Dedupe   Dedupe   `yaml:"dedupe"`
	Analysis Analysis `yaml:"analysis"`
}

// Server configures the HTTP listener.
type Server struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Backend configures the sensor data API.
type Backend struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// Dedupe configures the request de-duplication cache. An empty RedisAddr
// selects the in-memory store.
type Dedupe struct {
	TTL       time.Duration `yaml:"ttl"`
	Size      int           `yaml:"size"`
	RedisAddr string        `yaml:"redis_addr"`
	KeyPrefix string        `yaml:"key_prefix"`
}

// Analysis configures the pipeline defaults.
type Analysis struct {
	MaxPeaks int `yaml:"max_peaks"`
	// PeakConvention is "peak" or "scaled".
	PeakConvention string `yaml:"peak_convention"`
	// PeakToleranceHz merges peaks closer than this many Hz. 0 selects two
	// spectral lines.
	PeakToleranceHz float64 `yaml:"peak_tolerance_hz"`
	RemoveDC       bool   `yaml:"remove_dc"`
	// HighPassHz enables the drift-removal highpass on raw records.
	HighPassHz float64 `yaml:"highpass_hz"`
	// Window tapers mm/s² and velocity records before the FFT: hann,
	// hamming, flattop or none. G records are never windowed.
	Window string `yaml:"window"`
}

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid")

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Server: Server{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Backend: Backend{
			BaseURL: "http://localhost:9000",
			Timeout: 5 * time.Second,
		},
		Dedupe: Dedupe{
			TTL:       500 * time.Millisecond,
			Size:      1024,
			KeyPrefix: "vibe:dedupe:",
		},
		Analysis: Analysis{
			MaxPeaks:       5,
			PeakConvention: "peak",
			Window:         "hann",
		},
	}
}

// Load reads path (skipped when empty), then envFile (skipped when empty or
// missing), then applies VIBE_* overrides and validates the result.
func Load(path, envFile string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}

		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("config: load %s: %w", envFile, err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks the settings for values the service cannot run with.
func (c Config) Validate() error {
	switch {
	case c.Server.Addr == "":
		return fmt.Errorf("%w: server.addr is empty", ErrInvalid)
	case c.Backend.BaseURL == "":
		return fmt.Errorf("%w: backend.base_url is empty", ErrInvalid)
	case c.Backend.Timeout <= 0:
		return fmt.Errorf("%w: backend.timeout %v <= 0", ErrInvalid, c.Backend.Timeout)
	case c.Dedupe.TTL < 0:
		return fmt.Errorf("%w: dedupe.ttl %v < 0", ErrInvalid, c.Dedupe.TTL)
	case c.Dedupe.Size < 1:
		return fmt.Errorf("%w: dedupe.size %d < 1", ErrInvalid, c.Dedupe.Size)
	case c.Analysis.PeakToleranceHz < 0:
		return fmt.Errorf("%w: analysis.peak_tolerance_hz %v < 0", ErrInvalid, c.Analysis.PeakToleranceHz)
	case c.Analysis.HighPassHz < 0:
		return fmt.Errorf("%w: analysis.highpass_hz %v < 0", ErrInvalid, c.Analysis.HighPassHz)
	case c.Analysis.MaxPeaks < 1:
		return fmt.Errorf("%w: analysis.max_peaks %d < 1", ErrInvalid, c.Analysis.MaxPeaks)
	}

	if _, err := peaks.ParseConvention(c.Analysis.PeakConvention); err != nil {
		return fmt.Errorf("%w: analysis.peak_convention: %v", ErrInvalid, err)
	}

	if _, err := window.ParseType(c.Analysis.Window); err != nil {
		return fmt.Errorf("%w: analysis.window: %v", ErrInvalid, err)
	}

	return nil
}

type lookupFunc func(key string) (string, bool)

func (c *Config) applyEnv(lookup lookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	var firstErr error
	fail := func(key, v string, err error) {
		if firstErr == nil {
			firstErr = fmt.Errorf("%w: %s=%q: %v", ErrInvalid, key, v, err)
		}
	}

	dur := func(key string, dst *time.Duration) {
		if v, ok := lookup(key); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				fail(key, v, err)
				return
			}
			*dst = d
		}
	}

	integer := func(key string, dst *int) {
		if v, ok := lookup(key); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				fail(key, v, err)
				return
			}
			*dst = n
		}
	}

	decimal := func(key string, dst *float64) {
		if v, ok := lookup(key); ok && v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				fail(key, v, err)
				return
			}
			*dst = f
		}
	}

	boolean := func(key string, dst *bool) {
		if v, ok := lookup(key); ok && v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				fail(key, v, err)
				return
			}
			*dst = b
		}
	}

	boolean("VIBE_DEBUG", &c.Debug)
	str("VIBE_ADDR", &c.Server.Addr)
	str("VIBE_BACKEND_URL", &c.Backend.BaseURL)
	dur("VIBE_BACKEND_TIMEOUT", &c.Backend.Timeout)
	dur("VIBE_DEDUPE_TTL", &c.Dedupe.TTL)
	integer("VIBE_DEDUPE_SIZE", &c.Dedupe.Size)
	str("VIBE_REDIS_ADDR", &c.Dedupe.RedisAddr)
	integer("VIBE_MAX_PEAKS", &c.Analysis.MaxPeaks)
	str("VIBE_PEAK_CONVENTION", &c.Analysis.PeakConvention)
	boolean("VIBE_REMOVE_DC", &c.Analysis.RemoveDC)
	decimal("VIBE_HIGHPASS_HZ", &c.Analysis.HighPassHz)
	decimal("VIBE_PEAK_TOLERANCE_HZ", &c.Analysis.PeakToleranceHz)
	str("VIBE_WINDOW", &c.Analysis.Window)

	return firstErr
}
