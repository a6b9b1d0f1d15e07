// Package logging builds the zap logger used by the command line tool.
// When a log file is configured, output goes to a lumberjack rotating file.
package logging

import (
	"os"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config selects where log output goes and how verbose it is
type Config struct {
	// File is the log file path; empty logs to stderr
	File string

	// MaxSize is the size in megabytes before rotation
	MaxSize int

	// MaxAge is the number of days rotated files are kept
	MaxAge int

	// Verbose enables debug output
	Verbose bool
}

// New creates a logger. The returned function flushes buffered entries and
// should be deferred by the caller.
func New(c Config) (*zap.Logger, func()) {
	level := zapcore.InfoLevel
	if c.Verbose {
		level = zapcore.DebugLevel
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var (
		sink    zapcore.WriteSyncer
		encoder zapcore.Encoder
		closer  func() error
	)
	if c.File != "" {
		rotator := &lumberjack.Logger{
			Filename: c.File,
			MaxSize:  c.MaxSize, // megabytes
			MaxAge:   c.MaxAge,  // days
		}
		sink = zapcore.AddSync(rotator)
		encoder = zapcore.NewJSONEncoder(encoderCfg)
		closer = rotator.Close
	} else {
		sink = zapcore.Lock(os.Stderr)
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	}

	logger := zap.New(zapcore.NewCore(encoder, sink, level))
	return logger, func() {
		_ = logger.Sync()
		if closer != nil {
			_ = closer()
		}
	}
}
