// Package logging is the structured logging facade used across implgen. Messages carry a
// metadata map and are written by a zap logger that stays a no-op until Initialize is called.
package logging

import (
	"io"
	"sort"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const appName = "implgen"

// Verbosity levels, counted from repeated -v flags.
const (
	VerbosityQuiet = 0
	VerbosityInfo  = 1
	VerbosityDebug = 2
)

var (
	mu     sync.RWMutex
	logger = zap.NewNop().Sugar()
)

// VerbosityToLevel maps a -v count to a zap level.
func VerbosityToLevel(verbosity int) zapcore.Level {
	switch {
	case verbosity <= VerbosityQuiet:
		return zapcore.WarnLevel
	case verbosity == VerbosityInfo:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}

// Initialize installs a logger writing to w at the level implied by verbosity.
func Initialize(w io.Writer, verbosity int, jsonOutput bool) {
	var encoder zapcore.Encoder
	if jsonOutput {
		cfg := zap.NewProductionEncoderConfig()
		cfg.EncodeTime = zapcore.RFC3339NanoTimeEncoder
		encoder = zapcore.NewJSONEncoder(cfg)
	} else {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.TimeKey = ""
		cfg.CallerKey = ""
		encoder = zapcore.NewConsoleEncoder(cfg)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(w), VerbosityToLevel(verbosity))
	Set(zap.New(core).Named(appName))
}

// Set replaces the active logger. Tests use it with zaptest/observer cores.
func Set(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	logger = l.Sugar()
}

// Sync flushes buffered entries.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	_ = logger.Sync()
}

func Info(message string, metadata map[string]any) {
	current().Infow(message, fields(metadata)...)
}

func Debug(message string, metadata map[string]any) {
	current().Debugw(message, fields(metadata)...)
}

func Warn(message string, metadata map[string]any) {
	current().Warnw(message, fields(metadata)...)
}

func Error(message string, metadata map[string]any) {
	current().Errorw(message, fields(metadata)...)
}

func current() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// fields flattens metadata into sorted key/value pairs so output is stable.
func fields(metadata map[string]any) []any {
	if len(metadata) == 0 {
		return nil
	}
	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	kv := make([]any, 0, len(keys)*2)
	for _, k := range keys {
		kv = append(kv, k, metadata[k])
	}
	return kv
}
