// Package logger provides leveled logging with support for debug, info, warn, and error levels.
// It wraps a zap sugared logger so call sites keep printf-style messages while output is
// structured: JSON in production, a console encoder for local text output.
package logger

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu            sync.RWMutex
	defaultLogger = zap.NewNop().Sugar()
	level         = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

// ParseLevel maps a configured level name to a zap level. Unknown names map to info.
func ParseLevel(name string) zapcore.Level {
	switch strings.ToLower(name) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Init initializes the default logger with the specified level and format
func Init(levelName string, format string) {
	level.SetLevel(ParseLevel(levelName))

	var encoder zapcore.Encoder
	if strings.ToLower(format) == "text" {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006/01/02 15:04:05.000000")
		encoder = zapcore.NewConsoleEncoder(cfg)
	} else {
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), level)
	Replace(zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)))
}

// SetLevel changes the level of a logger created by Init without rebuilding it.
func SetLevel(levelName string) {
	level.SetLevel(ParseLevel(levelName))
}

// Replace swaps the underlying zap logger. Tests use it with an observer core.
func Replace(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	defaultLogger = l.Sugar()
}

// Sync flushes buffered log entries.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	_ = defaultLogger.Sync()
}

func current() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return defaultLogger
}

// Debug logs a message at DebugLevel
func Debug(format string, args ...interface{}) {
	current().Debugf(format, args...)
}

// Info logs a message at InfoLevel
func Info(format string, args ...interface{}) {
	current().Infof(format, args...)
}

// Warn logs a message at WarnLevel
func Warn(format string, args ...interface{}) {
	current().Warnf(format, args...)
}

// Error logs a message at ErrorLevel
func Error(format string, args ...interface{}) {
	current().Errorf(format, args...)
}

// Fatal logs a message at ErrorLevel and exits
func Fatal(format string, args ...interface{}) {
	l := current()
	if l.Desugar().Core().Enabled(zapcore.ErrorLevel) {
		l.Errorf("[FATAL] "+format, args...)
		_ = l.Sync()
	} else {
		fmt.Fprintf(os.Stderr, "[FATAL] "+format+"\n", args...)
	}
	os.Exit(1)
}
