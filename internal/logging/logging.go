// Package logging builds the diagnostic logger. Operator-facing output does not go
// through here; it is printed by the ui package.
package logging

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Verbosity selects how much diagnostic output reaches stderr.
type Verbosity int

const (
	Default Verbosity = iota
	Quiet
	Verbose
)

// FromFlags maps the --quiet/--verbose pair onto a Verbosity.
func FromFlags(quiet, verbose bool) Verbosity {
	switch {
	case verbose:
		return Verbose
	case quiet:
		return Quiet
	default:
		return Default
	}
}

// Level returns the zap level for v.
func (v Verbosity) Level() zapcore.Level {
	switch v {
	case Verbose:
		return zapcore.DebugLevel
	case Quiet:
		return zapcore.ErrorLevel
	default:
		return zapcore.WarnLevel
	}
}

// New returns a console logger on stderr.
func New(v Verbosity) *zap.Logger {
	return NewWithWriter(os.Stderr, v)
}

// NewWithWriter returns a console logger writing to w.
func NewWithWriter(w io.Writer, v Verbosity) *zap.Logger {
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.AddSync(w),
		zap.NewAtomicLevelAt(v.Level()),
	)
	return zap.New(core)
}
