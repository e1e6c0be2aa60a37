// Package obslog builds the process logger and adapts it to the
// component-tagged Logger interface used throughout the app.
package obslog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects level, encoding and sinks. Empty fields use defaults.
type Options struct {
	Level  string // debug | info | warn | error
	Format string // console | json
	File   string // optional log file, appended to
	Debug  bool   // forces debug level and caller annotations
}

// OptionsFromEnv reads LOG_LEVEL, LOG_FORMAT and LOG_FILE.
func OptionsFromEnv() Options {
	return Options{
		Level:  strings.TrimSpace(os.Getenv("LOG_LEVEL")),
		Format: strings.TrimSpace(os.Getenv("LOG_FORMAT")),
		File:   strings.TrimSpace(os.Getenv("LOG_FILE")),
	}
}

// New builds a zap logger writing to stderr and, when set, to opts.File.
func New(opts Options) (*zap.Logger, error) {
	level := parseLevel(opts.Level)
	if opts.Debug {
		level = zapcore.DebugLevel
	}
	enc := newEncoder(opts.Format)
	cores := []zapcore.Core{zapcore.NewCore(enc, zapcore.AddSync(os.Stderr), level)}

	if opts.File != "" {
		if err := ensureDir(filepath.Dir(opts.File)); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(opts.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		cores = append(cores, zapcore.NewCore(newEncoder(opts.Format), zapcore.AddSync(f), level))
	}

	logger := zap.New(zapcore.NewTee(cores...))
	if opts.Debug {
		logger = logger.WithOptions(zap.AddCaller(), zap.AddCallerSkip(1))
	}
	return logger, nil
}

func newEncoder(format string) zapcore.Encoder {
	if strings.EqualFold(format, "json") {
		cfg := zap.NewProductionEncoderConfig()
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.EncodeLevel = zapcore.LowercaseLevelEncoder
		return zapcore.NewJSONEncoder(cfg)
	}
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.ConsoleSeparator = " | "
	return zapcore.NewConsoleEncoder(cfg)
}

func parseLevel(s string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func ensureDir(dir string) error {
	if strings.TrimSpace(dir) == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// ComponentLogger implements Infof/Errorf(component, format, args...) on top
// of zap. The component becomes a structured field.
type ComponentLogger struct {
	sugar *zap.SugaredLogger
}

func Components(l *zap.Logger) ComponentLogger {
	if l == nil {
		l = zap.NewNop()
	}
	return ComponentLogger{sugar: l.Sugar()}
}

func (l ComponentLogger) Infof(component, format string, args ...interface{}) {
	l.sugar.With("component", component).Infof(format, args...)
}

func (l ComponentLogger) Errorf(component, format string, args ...interface{}) {
	l.sugar.With("component", component).Errorf(format, args...)
}

// Sync flushes buffered entries.
func (l ComponentLogger) Sync() error { return l.sugar.Sync() }
