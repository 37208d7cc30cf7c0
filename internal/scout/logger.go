package prowl

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevel defines the verbosity of diagnostics, from most to least verbose.
// Match output is not affected: matched paths always go to the output writer.
type LogLevel int

const (
	LogLevelTrace LogLevel = iota
	LogLevelVerbose
	LogLevelNormal
	LogLevelError
	LogLevelOff
)

// ParseLogLevel converts a level name from the command line into a LogLevel.
func ParseLogLevel(name string) (LogLevel, error) {
	switch name {
	case "trace":
		return LogLevelTrace, nil
	case "verbose":
		return LogLevelVerbose, nil
	case "normal":
		return LogLevelNormal, nil
	case "error":
		return LogLevelError, nil
	case "off":
		return LogLevelOff, nil
	}
	return 0, fmt.Errorf("unknown log level: %s", name)
}

// createLogger creates a zap logger for the given verbosity. Diagnostics are
// written to stderr so they never interleave with match output on stdout.
func createLogger(level LogLevel) *zap.Logger {
	var config zap.Config

	switch level {
	case LogLevelOff:
		return zap.NewNop()
	case LogLevelTrace:
		config = zap.NewDevelopmentConfig()
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	case LogLevelVerbose:
		config = zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	default: // LogLevelNormal, LogLevelError
		config = zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}
	config.OutputPaths = []string{"stderr"}
	logger, _ := config.Build()
	return logger
}
