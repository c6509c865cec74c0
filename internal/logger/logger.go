package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var output = newLogger(os.Stdout)

func newLogger(w io.Writer) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.TimestampFieldName = "ts"
	zerolog.MessageFieldName = "msg"
	return zerolog.New(w).With().Timestamp().Logger()
}

// SetOutput redirects log lines, mostly for tests.
func SetOutput(w io.Writer) {
	output = newLogger(w)
}

func emit(ev *zerolog.Event, msg string, extra map[string]interface{}) {
	if len(extra) > 0 {
		ev = ev.Interface("extra", extra)
	}
	ev.Msg(msg)
}

func Info(msg string, extra map[string]interface{}) {
	emit(output.Info(), msg, extra)
}

func Warn(msg string, extra map[string]interface{}) {
	emit(output.Warn(), msg, extra)
}

func Error(msg string, extra map[string]interface{}) {
	emit(output.Error(), msg, extra)
}
