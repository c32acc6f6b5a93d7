package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the process-wide logger. It defaults to a no-op so packages can
// log unconditionally before Init runs (notably in tests).
var Log = zap.NewNop()

func Init(level string) error {
	var lvl zapcore.Level

	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	log, err := cfg.Build()

	if err != nil {
		return err
	}

	Log = log
	return nil
}

func Sync() {
	_ = Log.Sync()
}
