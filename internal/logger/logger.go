package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/getsentry/sentry-go"
	slogmulti "github.com/samber/slog-multi"
	slogsentry "github.com/samber/slog-sentry/v2"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log is the global logger instance
var Log *slog.Logger

type Options struct {
	Development bool
	Level       string // debug, info, warn, error; empty picks by environment
	File        string // optional rotating log file
	SentryDSN   string
}

// Init installs the global logger.
// Development: text format at Debug. Production: JSON at Info.
// Errors go to Sentry as well when a DSN is set.
func Init(opts Options) {
	level := parseLevel(opts.Level, opts.Development)

	var out io.Writer = os.Stdout
	if opts.File != "" {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    50, // megabytes
			MaxBackups: 5,
			MaxAge:     28, // days
			Compress:   true,
		})
	}

	handlers := []slog.Handler{newHandler(out, level, opts.Development)}

	if opts.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              opts.SentryDSN,
			TracesSampleRate: 1.0,
		})
		if err == nil {
			handlers = append(handlers, slogsentry.Option{
				Level: slog.LevelError,
			}.NewSentryHandler())
		}
	}

	var handler slog.Handler
	if len(handlers) > 1 {
		handler = slogmulti.Fanout(handlers...)
	} else {
		handler = handlers[0]
	}

	Log = slog.New(handler)
	slog.SetDefault(Log)
}

func newHandler(w io.Writer, level slog.Level, dev bool) slog.Handler {
	if dev {
		return slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	}
	return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
}

func parseLevel(s string, dev bool) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	if dev {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}
