package sentryutil

import (
	"funpaybot/internal/config"
	"funpaybot/internal/logger"
	"time"

	"github.com/getsentry/sentry-go"
)

// Init configures the global Sentry client. An empty DSN leaves every
// capture below as a no-op.
func Init(cfg config.Config) {
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.SentryEnvironment,
		Release:          cfg.SentryRelease,
		TracesSampleRate: 0.2,
		EnableTracing:    cfg.SentryDSN != "",
		BeforeSend: func(event *sentry.Event, hint *sentry.EventHint) *sentry.Event {
			// Admin IDs and tokens stay out of reports.
			event.User = sentry.User{}
			return event
		},
	})
	if err != nil {
		logger.Warn("sentry: init failed, continuing without it", map[string]interface{}{"error": err.Error()})
		return
	}
	logger.Info("sentry: initialized", map[string]interface{}{
		"enabled": cfg.SentryDSN != "", "environment": cfg.SentryEnvironment,
	})
}

func Flush() { sentry.Flush(2 * time.Second) }

// CaptureError reports err tagged with component/action style tags.
func CaptureError(err error, tags map[string]string) {
	if err == nil {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTags(tags)
		sentry.CaptureException(err)
	})
}

// CaptureWarning reports a recoverable condition that still deserves attention.
func CaptureWarning(msg string, tags map[string]string) {
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetLevel(sentry.LevelWarning)
		scope.SetTags(tags)
		sentry.CaptureMessage(msg)
	})
}
