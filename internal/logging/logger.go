// Package logging provides config-driven, categorized zap loggers for gantt.
// Each subsystem logs through its own category, and categories can be
// switched off individually in the logging section of the config file.
// Until Initialize is called every logger is a no-op.
package logging

import (
	"fmt"
	"strings"
	"sync"

	"shiftgantt/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category/subsystem.
type Category string

const (
	CategoryBoot    Category = "boot"    // CLI startup, config resolution
	CategoryLoad    Category = "load"    // Data file loading and validation
	CategoryChart   Category = "chart"   // Geometry derivation
	CategoryRender  Category = "render"  // Image output
	CategoryDisplay Category = "display" // Terminal output and the viewer
	CategoryWatch   Category = "watch"   // File watching and rebuilds
)

var (
	mu         sync.RWMutex
	base       = zap.NewNop()
	loggers    = make(map[Category]*zap.SugaredLogger)
	categories map[string]bool
)

// Initialize builds the process logger from cfg. verbose forces debug level.
// fields are attached to every entry (the CLI uses this for a run ID).
func Initialize(cfg config.LoggingConfig, verbose bool, fields ...zap.Field) error {
	var zcfg zap.Config
	switch strings.ToLower(cfg.Format) {
	case "json":
		zcfg = zap.NewProductionConfig()
	case "", "console", "text":
		zcfg = zap.NewDevelopmentConfig()
		zcfg.DisableStacktrace = true
	default:
		return fmt.Errorf("unknown log format %q (valid: console, json)", cfg.Format)
	}

	level := zapcore.InfoLevel
	if cfg.Level != "" {
		parsed, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		level = parsed
	}
	if verbose {
		level = zapcore.DebugLevel
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)

	if cfg.File != "" {
		zcfg.OutputPaths = []string{cfg.File}
	} else {
		zcfg.OutputPaths = []string{"stderr"}
	}
	zcfg.ErrorOutputPaths = []string{"stderr"}

	logger, err := zcfg.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if len(fields) > 0 {
		logger = logger.With(fields...)
	}

	mu.Lock()
	defer mu.Unlock()
	_ = base.Sync()
	base = logger
	loggers = make(map[Category]*zap.SugaredLogger)
	categories = cfg.Categories
	return nil
}

// Base returns the underlying zap logger.
func Base() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// Sync flushes buffered entries.
func Sync() error {
	return Base().Sync()
}

// IsCategoryEnabled returns whether a category logs. Categories not listed in
// the config are enabled.
func IsCategoryEnabled(category Category) bool {
	mu.RLock()
	defer mu.RUnlock()
	return isEnabled(category)
}

func isEnabled(category Category) bool {
	if categories == nil {
		return true
	}
	enabled, ok := categories[string(category)]
	return !ok || enabled
}

// Get returns the logger for a category, a no-op logger if it is disabled.
func Get(category Category) *zap.SugaredLogger {
	mu.RLock()
	if l, ok := loggers[category]; ok {
		mu.RUnlock()
		return l
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if l, ok := loggers[category]; ok {
		return l
	}
	var l *zap.SugaredLogger
	if isEnabled(category) {
		l = base.Named(string(category)).Sugar()
	} else {
		l = zap.NewNop().Sugar()
	}
	loggers[category] = l
	return l
}

// Convenience helpers, one pair per category.

func Boot(format string, args ...interface{})      { Get(CategoryBoot).Infof(format, args...) }
func BootDebug(format string, args ...interface{}) { Get(CategoryBoot).Debugf(format, args...) }

func Load(format string, args ...interface{})      { Get(CategoryLoad).Infof(format, args...) }
func LoadDebug(format string, args ...interface{}) { Get(CategoryLoad).Debugf(format, args...) }

func Chart(format string, args ...interface{})      { Get(CategoryChart).Infof(format, args...) }
func ChartDebug(format string, args ...interface{}) { Get(CategoryChart).Debugf(format, args...) }

func Render(format string, args ...interface{})      { Get(CategoryRender).Infof(format, args...) }
func RenderDebug(format string, args ...interface{}) { Get(CategoryRender).Debugf(format, args...) }

func Display(format string, args ...interface{})      { Get(CategoryDisplay).Infof(format, args...) }
func DisplayDebug(format string, args ...interface{}) { Get(CategoryDisplay).Debugf(format, args...) }

func Watch(format string, args ...interface{})      { Get(CategoryWatch).Infof(format, args...) }
func WatchDebug(format string, args ...interface{}) { Get(CategoryWatch).Debugf(format, args...) }
