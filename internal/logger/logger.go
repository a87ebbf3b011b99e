package logger

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	slogmulti "github.com/samber/slog-multi"
	slogsentry "github.com/samber/slog-sentry/v2"
)

// Log is the global logger instance
var Log *slog.Logger

// Options configures Init.
type Options struct {
	AppName   string
	Env       string
	SentryDSN string
	Output    io.Writer
}

// Init builds the process logger and installs it as the slog default.
// Development logs text at debug level, anything else JSON at info.
// With a Sentry DSN, error records are also forwarded to Sentry.
func Init(isDev bool, opts Options) *slog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	var handlers []slog.Handler
	if isDev {
		handlers = append(handlers, slog.NewTextHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug}))
	} else {
		handlers = append(handlers, slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	if opts.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:         opts.SentryDSN,
			Environment: opts.Env,
			ServerName:  opts.AppName,
		})
		if err != nil {
			slog.New(handlers[0]).Warn("sentry init failed, continuing without it", "error", err)
		} else {
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
	if opts.AppName != "" {
		Log = Log.With("app", opts.AppName)
	}
	slog.SetDefault(Log)
	return Log
}

// Flush waits for buffered Sentry events. Safe to call when Sentry is off.
func Flush(timeout time.Duration) {
	sentry.Flush(timeout)
}
