// Package observability provides structured logging for the combat engine.
package observability

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cory-johannsen/centaur/internal/config"
)

// NewLogger creates a structured logger from the given logging configuration.
// Debug entries from the "dice" logger are dropped unless cfg.Rolls is set.
//
// Precondition: cfg.Level must be one of "debug", "info", "warn", "error".
// Precondition: cfg.Format must be "json" or "console".
// Postcondition: Returns a configured zap.Logger named "centaur" or a non-nil error.
func NewLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level %q: %w", cfg.Level, err)
	}

	var zapCfg zap.Config
	switch cfg.Format {
	case "json":
		zapCfg = zap.NewProductionConfig()
		zapCfg.Sampling = nil
	case "console":
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.DisableStacktrace = true
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var opts []zap.Option
	if !cfg.Rolls {
		opts = append(opts, zap.WrapCore(func(c zapcore.Core) zapcore.Core {
			return rollFilter{Core: c}
		}))
	}
	logger, err := zapCfg.Build(opts...)
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger.Named("centaur"), nil
}

// rollFilter drops below-info entries of loggers named "dice".
type rollFilter struct {
	zapcore.Core
}

func (f rollFilter) With(fields []zapcore.Field) zapcore.Core {
	return rollFilter{Core: f.Core.With(fields)}
}

func (f rollFilter) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if ent.Level < zapcore.InfoLevel && IsRollLogger(ent.LoggerName) {
		return ce
	}
	return f.Core.Check(ent, ce)
}

// IsRollLogger reports whether name is the dice roller's logger name.
func IsRollLogger(name string) bool {
	return name == "dice" || strings.HasSuffix(name, ".dice")
}

// ForEncounter returns a child logger tagging every entry with the encounter
// ID and seed.
func ForEncounter(logger *zap.Logger, id string, seed int64) *zap.Logger {
	return logger.With(zap.String("encounter", id), zap.Int64("seed", seed))
}
