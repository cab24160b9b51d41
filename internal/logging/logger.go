// Package logging provides config-driven categorized logging for postergen.
// Every category writes through a shared console core; when debug_mode is on,
// each enabled category additionally gets its own file under the logs directory.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot        Category = "boot"        // Boot/initialization
	CategoryForm        Category = "form"        // Form state mutations
	CategoryCompiler    Category = "compiler"    // Prompt compilation
	CategoryBranding    Category = "branding"    // Default logo fetch
	CategoryAPI         Category = "api"         // Gemini API calls
	CategorySession     Category = "session"     // Generation lifecycle, history
	CategoryServer      Category = "server"      // HTTP API
	CategoryPerformance Category = "performance" // Slow operations
)

// Options mirrors config.LoggingConfig to avoid circular imports.
type Options struct {
	Level      string          // debug, info, warn, error
	Format     string          // json, text
	DebugMode  bool            // per-category log files
	Dir        string          // directory for per-category files
	Categories map[string]bool // per-category toggles for file output
	Console    bool            // write to stderr
}

// Logger is a category-scoped sugared zap logger.
type Logger struct {
	category Category
	sugar    *zap.SugaredLogger
	file     *os.File
}

var (
	loggers   = make(map[Category]*Logger)
	loggersMu sync.RWMutex
	opts      Options
	optsMu    sync.RWMutex
	level     = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

var console = zapcore.NewNopCore()

// Initialize configures the console core and, in debug mode, the logs directory.
// Loggers handed out before Initialize are discarded.
func Initialize(o Options) error {
	lvl, err := ParseLevel(o.Level)
	if err != nil {
		return err
	}

	CloseAll()

	optsMu.Lock()
	opts = o
	level.SetLevel(lvl)
	if o.Console {
		console = zapcore.NewCore(newEncoder(o.Format), zapcore.Lock(os.Stderr), level)
	} else {
		console = zapcore.NewNopCore()
	}
	optsMu.Unlock()

	if o.DebugMode {
		if o.Dir == "" {
			return fmt.Errorf("logs directory required in debug mode")
		}
		if err := os.MkdirAll(o.Dir, 0755); err != nil {
			return fmt.Errorf("failed to create logs directory: %w", err)
		}
	}

	boot := Get(CategoryBoot)
	boot.Debug("logging initialized: level=%s format=%s debug_mode=%v dir=%s", lvl, o.Format, o.DebugMode, o.Dir)
	return nil
}

// ParseLevel maps a level name to a zap level. Empty means info.
func ParseLevel(s string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", s)
	}
}

func newEncoder(format string) zapcore.Encoder {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	if strings.EqualFold(format, "json") {
		return zapcore.NewJSONEncoder(cfg)
	}
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewConsoleEncoder(cfg)
}

// IsDebugMode returns whether per-category file logging is enabled
func IsDebugMode() bool {
	optsMu.RLock()
	defer optsMu.RUnlock()
	return opts.DebugMode
}

// IsCategoryEnabled returns whether a category writes its own log file.
// Categories not listed are enabled by default in debug mode.
func IsCategoryEnabled(category Category) bool {
	optsMu.RLock()
	defer optsMu.RUnlock()

	if !opts.DebugMode {
		return false
	}
	if opts.Categories == nil {
		return true
	}
	enabled, exists := opts.Categories[string(category)]
	if !exists {
		return true
	}
	return enabled
}

// Get returns (or creates) a logger for the given category.
func Get(category Category) *Logger {
	loggersMu.RLock()
	if l, ok := loggers[category]; ok {
		loggersMu.RUnlock()
		return l
	}
	loggersMu.RUnlock()

	loggersMu.Lock()
	defer loggersMu.Unlock()

	if l, ok := loggers[category]; ok {
		return l
	}

	optsMu.RLock()
	core := console
	dir := opts.Dir
	format := opts.Format
	optsMu.RUnlock()

	l := &Logger{category: category}
	if IsCategoryEnabled(category) {
		date := time.Now().Format("2006-01-02")
		logPath := filepath.Join(dir, fmt.Sprintf("%s_%s.log", date, category))
		file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "[logging] Warning: could not open log file %s: %v\n", logPath, err)
		} else {
			l.file = file
			core = zapcore.NewTee(core, zapcore.NewCore(newEncoder(format), zapcore.AddSync(file), level))
		}
	}

	l.sugar = zap.New(core).Named(string(category)).Sugar()
	loggers[category] = l
	return l
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	l.sugar.Debugf(format, args...)
}

// Info logs an informational message
func (l *Logger) Info(format string, args ...interface{}) {
	l.sugar.Infof(format, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	l.sugar.Warnf(format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.sugar.Errorf(format, args...)
}

// With returns a child logger carrying structured key-value context.
func (l *Logger) With(kv ...interface{}) *Logger {
	return &Logger{category: l.category, sugar: l.sugar.With(kv...)}
}

// Category returns the logger's category.
func (l *Logger) Category() Category {
	return l.category
}

// CloseAll flushes and closes all category loggers (call at shutdown)
func CloseAll() {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	for _, l := range loggers {
		_ = l.sugar.Sync()
		if l.file != nil {
			l.file.Close()
		}
	}
	loggers = make(map[Category]*Logger)
}

// =============================================================================
// CONVENIENCE FUNCTIONS
// =============================================================================

func Boot(format string, args ...interface{})      { Get(CategoryBoot).Info(format, args...) }
func BootDebug(format string, args ...interface{}) { Get(CategoryBoot).Debug(format, args...) }
func BootError(format string, args ...interface{}) { Get(CategoryBoot).Error(format, args...) }

func Form(format string, args ...interface{})      { Get(CategoryForm).Info(format, args...) }
func FormDebug(format string, args ...interface{}) { Get(CategoryForm).Debug(format, args...) }

func Compiler(format string, args ...interface{})      { Get(CategoryCompiler).Info(format, args...) }
func CompilerDebug(format string, args ...interface{}) { Get(CategoryCompiler).Debug(format, args...) }
func CompilerError(format string, args ...interface{}) { Get(CategoryCompiler).Error(format, args...) }

func Branding(format string, args ...interface{})     { Get(CategoryBranding).Info(format, args...) }
func BrandingWarn(format string, args ...interface{}) { Get(CategoryBranding).Warn(format, args...) }

func API(format string, args ...interface{})      { Get(CategoryAPI).Info(format, args...) }
func APIDebug(format string, args ...interface{}) { Get(CategoryAPI).Debug(format, args...) }
func APIError(format string, args ...interface{}) { Get(CategoryAPI).Error(format, args...) }

func Session(format string, args ...interface{})      { Get(CategorySession).Info(format, args...) }
func SessionDebug(format string, args ...interface{}) { Get(CategorySession).Debug(format, args...) }
func SessionWarn(format string, args ...interface{})  { Get(CategorySession).Warn(format, args...) }
func SessionError(format string, args ...interface{}) { Get(CategorySession).Error(format, args...) }

func Server(format string, args ...interface{})      { Get(CategoryServer).Info(format, args...) }
func ServerDebug(format string, args ...interface{}) { Get(CategoryServer).Debug(format, args...) }
func ServerError(format string, args ...interface{}) { Get(CategoryServer).Error(format, args...) }

// =============================================================================
// PERFORMANCE TIMING
// =============================================================================

// Timer measures an operation and reports it to a category.
type Timer struct {
	category  Category
	operation string
	start     time.Time
}

// StartTimer starts timing an operation.
func StartTimer(category Category, operation string) *Timer {
	return &Timer{category: category, operation: operation, start: time.Now()}
}

// Stop logs the elapsed time at debug level and returns it.
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	Get(t.category).Debug("%s completed in %v", t.operation, elapsed)
	return elapsed
}

// StopWithThreshold logs to the performance category when elapsed exceeds threshold.
func (t *Timer) StopWithThreshold(threshold time.Duration) time.Duration {
	elapsed := t.Stop()
	if elapsed > threshold {
		Get(CategoryPerformance).Warn("slow operation: %s/%s took %v (threshold %v)", t.category, t.operation, elapsed, threshold)
	}
	return elapsed
}
