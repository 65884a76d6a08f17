// Package dlogger exposes a simple zap logger, with log levels
package dlogger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	// LogLevelInfo sets the log level to info
	LogLevelInfo = "info"

	// LogLevelDebug sets the log level to debug
	LogLevelDebug = "debug"

	// LogLevelNone sets logger to no logging
	LogLevelNone = "none"

	// EncodingJSON produces structured JSON logs (the default)
	EncodingJSON = "json"

	// EncodingConsole produces human-friendly logs, for interactive CLI use
	EncodingConsole = "console"
)

// Option alters the zap configuration built by GetLogger
type Option func(*zap.Config)

// WithEncoding selects the log encoding ("json" or "console")
func WithEncoding(encoding string) Option {
	return func(c *zap.Config) {
		if encoding == "" {
			return
		}
		c.Encoding = encoding
		if encoding == EncodingConsole {
			c.EncoderConfig = zap.NewDevelopmentEncoderConfig()
		}
	}
}

// WithOutput redirects logs to the given paths (e.g. "stderr", a file)
func WithOutput(paths ...string) Option {
	return func(c *zap.Config) {
		if len(paths) > 0 {
			c.OutputPaths = paths
		}
	}
}

// GetLogger returns a zap logger with the specified level
func GetLogger(logLevel string, opts ...Option) (*zap.Logger, error) {
	if logLevel == LogLevelNone {
		return zap.NewNop(), nil
	}
	zapConfig := zap.NewProductionConfig()
	var lvl zapcore.Level
	err := lvl.UnmarshalText([]byte(logLevel))
	if err != nil {
		return nil, err
	}
	zapConfig.Level = zap.NewAtomicLevelAt(lvl)
	for _, apply := range opts {
		apply(&zapConfig)
	}
	logger, err := zapConfig.Build()
	if err != nil {
		return nil, err
	}
	return logger, nil
}

// MustGetLogger returns a zap logger with the specified level or panics
func MustGetLogger(logLevel string, opts ...Option) *zap.Logger {
	l, err := GetLogger(logLevel, opts...)
	if err != nil {
		panic(err)
	}
	return l
}
