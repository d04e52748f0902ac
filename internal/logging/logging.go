package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/saltyorg/fruitstock/internal/config"
)

const (
	DefaultLogFilePath = "fruitstock.log"
	DefaultMaxSizeMB   = 50
	DefaultMaxBackups  = 5
	DefaultMaxAgeDays  = 30

	timeFormat = "2006-01-02 15:04:05"
)

// Apply sets the global log level and output writers.
// Logs always go to a rotating file. Stdout belongs to the interactive
// session, so console output is written to stderr and only when verbosity > 0.
func Apply(cfg config.Log, verbosity int) {
	applyLevel(levelFor(cfg.Level, verbosity))
	applyOutputs(cfg, verbosity > 0, os.Stderr)
}

// levelFor lets -v/-vv raise the configured level but never lower it.
func levelFor(level string, verbosity int) string {
	switch {
	case verbosity >= 2:
		return "trace"
	case verbosity == 1 && level != "trace":
		return "debug"
	default:
		return level
	}
}

func applyLevel(level string) {
	switch level {
	case "trace":
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func applyOutputs(cfg config.Log, console bool, consoleOut io.Writer) {
	maxSize := DefaultMaxSizeMB
	maxBackups := DefaultMaxBackups
	maxAgeDays := DefaultMaxAgeDays

	if cfg.MaxSizeMB > 0 {
		maxSize = cfg.MaxSizeMB
	}
	if cfg.MaxBackups >= 0 {
		maxBackups = cfg.MaxBackups
	}
	if cfg.MaxAgeDays >= 0 {
		maxAgeDays = cfg.MaxAgeDays
	}

	logFilePath := cfg.File
	if logFilePath == "" {
		logFilePath = DefaultLogFilePath
	}

	var writers []io.Writer
	if console {
		writers = append(writers, zerolog.ConsoleWriter{Out: consoleOut, TimeFormat: timeFormat})
	}

	if err := ensureLogDir(logFilePath); err != nil {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: consoleOut, TimeFormat: timeFormat}).With().Timestamp().Logger()
		log.Error().Err(err).Str("path", logFilePath).Msg("Failed to prepare log directory; logging to console only")
		return
	}

	fileWriter := &lumberjack.Logger{
		Filename:   logFilePath,
		MaxSize:    maxSize,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
		Compress:   cfg.Compress,
	}

	writers = append(writers, zerolog.ConsoleWriter{
		Out:        fileWriter,
		TimeFormat: timeFormat,
		NoColor:    true,
	})

	multi := zerolog.MultiLevelWriter(writers...)
	log.Logger = zerolog.New(multi).With().Timestamp().Logger()
}

func ensureLogDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
