// Package log provides structured, colored logging for klingnet-hd.
//
// Output goes to stderr so that command results on stdout stay pipeable.
package log

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// Logger is the global logger instance.
var Logger zerolog.Logger

// Component loggers.
var (
	Wallet zerolog.Logger
	CLI    zerolog.Logger
	Config zerolog.Logger
)

// Levels accepted by Init and ParseLevel.
var Levels = []string{"debug", "info", "warn", "error"}

var (
	// console is the stderr writer chosen by the last Init.
	console io.Writer = os.Stderr
	// logFile is the file opened by the last Init, if any.
	logFile *os.File
)

func init() {
	Logger = NewConsoleLogger(os.Stderr, "warn")
	initComponentLoggers()
}

// Init initializes the logger with the given configuration.
// When file is non-empty, logs are written to both stderr (colored or JSON
// depending on jsonOutput) and the file (always JSON).
func Init(level string, jsonOutput bool, file string) error {
	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}

	var stderr io.Writer = os.Stderr
	if !jsonOutput {
		stderr = consoleWriter(os.Stderr)
	}

	out := stderr
	var f *os.File
	if file != "" {
		f, err = os.OpenFile(file, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		out = zerolog.MultiLevelWriter(stderr, f)
	}

	// The previous file is only released once the new output is ready.
	if logFile != nil {
		logFile.Close()
	}
	console, logFile = stderr, f

	Logger = newLogger(out, lvl)
	initComponentLoggers()
	return nil
}

// Close closes the log file opened by Init, if any. Logging continues on
// stderr at the same level.
func Close() error {
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil

	Logger = newLogger(console, Logger.GetLevel())
	initComponentLoggers()
	return err
}

// NewConsoleLogger creates a console logger. Colors are only used when w is
// a terminal.
func NewConsoleLogger(w io.Writer, level string) zerolog.Logger {
	lvl, err := ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return newLogger(consoleWriter(w), lvl)
}

// NewJSONLogger creates a structured JSON logger.
func NewJSONLogger(w io.Writer, level string) zerolog.Logger {
	lvl, err := ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return newLogger(w, lvl)
}

func newLogger(w io.Writer, lvl zerolog.Level) zerolog.Logger {
	return zerolog.New(w).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}

func consoleWriter(w io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "15:04:05",
		NoColor:    !isTerminal(w),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// ParseLevel converts a level name to a zerolog.Level.
func ParseLevel(level string) (zerolog.Level, error) {
	switch level {
	case "debug":
		return zerolog.DebugLevel, nil
	case "info":
		return zerolog.InfoLevel, nil
	case "warn":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	default:
		return zerolog.NoLevel, fmt.Errorf("unknown log level %q (want one of %v)", level, Levels)
	}
}

func initComponentLoggers() {
	Wallet = WithComponent("wallet")
	CLI = WithComponent("cli")
	Config = WithComponent("config")
}

// WithComponent returns a logger with a component field.
func WithComponent(name string) zerolog.Logger {
	return Logger.With().Str("component", name).Logger()
}

// Benchmark returns a func that logs the time elapsed since the call at
// debug level.
func Benchmark(name string) func() {
	start := time.Now()
	return func() {
		Logger.Debug().
			Str("operation", name).
			Dur("duration", time.Since(start)).
			Msg("benchmark")
	}
}
