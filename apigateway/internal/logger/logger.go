// Package logger is the process-wide zerolog setup.
package logger

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

type ctxKey struct{}

var log = zerolog.New(os.Stdout).With().Timestamp().Logger()

// InitLogging writes JSON lines to stdout and, when path is set, appends them
// to that file too.
func InitLogging(path string) {
	var out io.Writer = os.Stdout
	if path != "" {
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("cannot open log file, logging to stdout only")
		} else {
			out = zerolog.MultiLevelWriter(os.Stdout, f)
		}
	}
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	log = zerolog.New(out).With().Timestamp().Logger()
}

// SetOutput redirects logging to w.
func SetOutput(w io.Writer) {
	log = zerolog.New(w).With().Timestamp().Logger()
}

// SetLevel sets the global level by name. Unknown names select info.
func SetLevel(level string) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

// WithRequestID returns a context carrying a request id for log lines.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// RequestID returns the request id stored in ctx, if any.
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

func InfoLog(ctx context.Context, format string, args ...interface{}) {
	write(ctx, log.Info(), format, args)
}

func WarnLog(ctx context.Context, format string, args ...interface{}) {
	write(ctx, log.Warn(), format, args)
}

func ErrorLog(ctx context.Context, format string, args ...interface{}) {
	write(ctx, log.Error(), format, args)
}

func DebugLog(ctx context.Context, format string, args ...interface{}) {
	write(ctx, log.Debug(), format, args)
}

func write(ctx context.Context, e *zerolog.Event, format string, args []interface{}) {
	if e == nil {
		return
	}
	if id := RequestID(ctx); id != "" {
		e = e.Str("request_id", id)
	}
	if len(args) == 0 {
		e.Msg(format)
		return
	}
	e.Msgf(format, args...)
}
