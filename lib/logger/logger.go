package logger

import (
	"log/slog"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/lmittmann/tint"
	slogmulti "github.com/samber/slog-multi"
	slogsentry "github.com/samber/slog-sentry/v2"

	"github.com/artie-labs/dataset/config"
)

var handlersToTerminate []func()

// NewLogger returns the console logger at the configured level, fanned out to Sentry for errors when a DSN is set.
// attrs are attached to every record, e.g. the run ID.
func NewLogger(settings *config.Settings, attrs ...slog.Attr) (*slog.Logger, func()) {
	var reporting *config.Reporting
	if settings != nil {
		reporting = settings.Reporting
	}

	level, err := reporting.GetLogLevel()
	handler := slog.Handler(tint.NewHandler(os.Stderr, &tint.Options{Level: level}))
	if err != nil {
		slog.New(handler).Warn("Falling back to the info log level", slog.Any("err", err))
	}

	if reporting != nil && reporting.Sentry != nil && reporting.Sentry.DSN != "" {
		if err = sentry.Init(sentry.ClientOptions{Dsn: reporting.Sentry.DSN, Environment: reporting.Sentry.Environment}); err != nil {
			slog.New(handler).Warn("Failed to enable Sentry output", slog.Any("err", err))
		} else {
			handler = slogmulti.Fanout(
				handler,
				slogsentry.Option{Level: slog.LevelError}.NewSentryHandler(),
			)

			slog.New(handler).Info("Sentry logger enabled", slog.String("environment", reporting.Sentry.Environment))
			handlersToTerminate = append(handlersToTerminate, func() {
				sentry.Flush(2 * time.Second)
			})
		}
	}

	if len(attrs) > 0 {
		handler = handler.WithAttrs(attrs)
	}
	return slog.New(handler), runHandlers
}

func runHandlers() {
	for _, handlerToTerminate := range handlersToTerminate {
		handlerToTerminate()
	}
}

func Fatal(msg string, args ...any) {
	slog.Error(msg, args...)
	runHandlers()
	os.Exit(1)
}
