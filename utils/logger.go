package utils

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the shared application logger. It defaults to info level and can
// be replaced early in main via InitLogger.
var Log = NewLogger("info", "console")

// NewLogger builds a sugared zap logger with the given level and format
// ("json" or "console").
func NewLogger(levelStr, format string) *zap.SugaredLogger {
	level := zapcore.InfoLevel
	switch levelStr {
	case "debug":
		level = zapcore.DebugLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	}

	var cfg zap.Config
	if format == "json" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := cfg.Build(zap.AddCallerSkip(0))
	if err != nil {
		// Fall back to a no-op logger rather than failing startup.
		return zap.NewNop().Sugar()
	}
	return logger.Sugar()
}

// InitLogger replaces the global logger with one built from config values.
func InitLogger(levelStr, format string) {
	Log = NewLogger(levelStr, format)
}
