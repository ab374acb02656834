// Package log holds the process-wide zap logger used by the binaries.
// Library packages take a *zap.Logger option instead of calling into here.
package log

import (
	"fmt"

	"go.uber.org/zap"
)

var (
	base  *zap.Logger
	sugar *zap.SugaredLogger
)

// Init builds the process logger: development config when debug is set,
// production JSON otherwise.
func Init(debug bool) error {
	var (
		l   *zap.Logger
		err error
	)

	if debug {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return fmt.Errorf("log: can't initialize zap logger: %w", err)
	}

	set(l)
	return nil
}

// Logger returns the base logger. Before Init it returns a no-op logger.
func Logger() *zap.Logger {
	if base == nil {
		set(zap.NewNop())
	}
	return base
}

// Sugared returns the sugared form of Logger.
func Sugared() *zap.SugaredLogger {
	Logger()
	return sugar
}

// Sync flushes buffered entries.
func Sync() {
	if base != nil {
		_ = base.Sync()
	}
}

func set(l *zap.Logger) {
	base = l
	sugar = l.Sugar()
}

func Infow(msg string, keysAndValues ...any) {
	Sugared().Infow(msg, keysAndValues...)
}

func Warnw(msg string, keysAndValues ...any) {
	Sugared().Warnw(msg, keysAndValues...)
}

func Errorw(msg string, keysAndValues ...any) {
	Sugared().Errorw(msg, keysAndValues...)
}

// Fatalf logs and exits the process.
func Fatalf(template string, args ...any) {
	Sugared().Fatalf(template, args...)
}
