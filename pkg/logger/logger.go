// pkg/logger/logger.go

package logger

import (
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu  sync.RWMutex
	log *zap.Logger
)

// Options controls where and how verbosely the CLI logs.
type Options struct {
	Level string
	// FilePath overrides the JSON log file location. Empty means the first
	// writable entry of PlatformLogPaths.
	FilePath string
}

// Initialize installs a console core on stderr, tee'd with a JSON file core
// when a log file can be opened. stdout stays reserved for prompts and the
// report.
func Initialize(opts Options) *zap.Logger {
	level := ParseLogLevel(opts.Level)

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(DefaultConsoleEncoderConfig()), zapcore.Lock(os.Stderr), level),
	}

	path, writer, err := openLogFile(opts.FilePath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "⚠️  No writable log path found. Logging to console only.")
	} else {
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(DefaultJSONEncoderConfig()), writer, level))
	}

	l := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	SetLogger(l)
	l.Debug("Logger initialized", zap.String("log_level", level.String()), zap.String("log_path", path))
	return l
}

// InitFallback installs a console-only logger. Safe to call repeatedly; an
// already installed logger is kept.
func InitFallback() {
	if L() != nil {
		return
	}
	SetLogger(NewFallbackLogger())
}

// NewFallbackLogger logs to stderr at the LOG_LEVEL environment level.
func NewFallbackLogger() *zap.Logger {
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(DefaultConsoleEncoderConfig()),
		zapcore.Lock(os.Stderr),
		ParseLogLevel(os.Getenv("LOG_LEVEL")),
	)
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
}

// SetLogger replaces the package, zap and otelzap globals.
func SetLogger(l *zap.Logger) {
	mu.Lock()
	log = l
	mu.Unlock()
	zap.ReplaceGlobals(l)
	otelzap.ReplaceGlobals(otelzap.New(l))
}

// L returns the installed logger, or nil before initialization.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// GetLogger returns the installed logger, installing the fallback if needed.
func GetLogger() *zap.Logger {
	InitFallback()
	return L()
}

// Sync flushes any buffered log entries. Should be called before the application exits.
func Sync() error {
	l := L()
	if l == nil {
		return nil
	}
	return l.Sync()
}

// DefaultConsoleEncoderConfig uses short keys and coloured levels.
func DefaultConsoleEncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "T"
	cfg.LevelKey = "L"
	cfg.NameKey = "N"
	cfg.CallerKey = "C"
	cfg.MessageKey = "M"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return cfg
}

// DefaultJSONEncoderConfig is used for the log file.
func DefaultJSONEncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return cfg
}

// ParseLogLevel maps LOG_LEVEL style names onto zap levels, defaulting to info.
func ParseLogLevel(level string) zapcore.Level {
	switch level {
	case "TRACE", "DEBUG", "trace", "debug":
		return zapcore.DebugLevel
	case "WARN", "WARNING", "warn", "warning":
		return zapcore.WarnLevel
	case "ERROR", "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// GenerateTraceID returns a short 8-char trace ID for runs without tracing.
func GenerateTraceID() string {
	return uuid.New().String()[:8]
}
