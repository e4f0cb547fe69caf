package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/elee1766/convo/src/config"
	"github.com/lmittmann/tint"
)

// createCLILogger creates a logger for single-shot commands writing to stderr
func createCLILogger(cfg config.LoggingConfig) *slog.Logger {
	level := parseLogLevel(cfg.Level)

	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		}))
	}
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
}

// createChatLogger creates a logger that doesn't interfere with the chat
// by writing to a file instead of stdout/stderr. The returned closer
// releases the file.
func createChatLogger(cfg config.LoggingConfig) (*slog.Logger, io.Closer) {
	discard := func() (*slog.Logger, io.Closer) {
		return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
			Level: slog.LevelError,
		})), io.NopCloser(nil)
	}

	logDir := cfg.Directory
	if logDir == "" {
		logDir = config.GetDefaultStoragePaths().LogPath
	}
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return discard()
	}

	name := fmt.Sprintf("chat_%s.log", time.Now().Format("2006-01-02_15-04-05"))
	file, err := os.OpenFile(filepath.Join(logDir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return discard()
	}

	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.Level)}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(file, opts)), file
	}
	return slog.New(slog.NewJSONHandler(file, opts)), file
}

// parseLogLevel converts string log level to slog.Level
func parseLogLevel(levelStr string) slog.Level {
	switch levelStr {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
