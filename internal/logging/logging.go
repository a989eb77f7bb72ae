package logging

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"
)

type ctxKey int

const (
	environmentKey ctxKey = iota
	writerKey
)

// WithEnvironment records the deployment environment used to pick the log format.
func WithEnvironment(ctx context.Context, env string) context.Context {
	return context.WithValue(ctx, environmentKey, env)
}

// WithWriter overrides the log destination, mostly for tests.
func WithWriter(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, writerKey, w)
}

// SetupLogger builds the service logger and attaches it to the context.
// The local environment gets a console writer, everything else JSON on stdout.
func SetupLogger(ctx context.Context, level zerolog.Level) (context.Context, *zerolog.Logger) {
	var w io.Writer = os.Stdout
	if cw, ok := ctx.Value(writerKey).(io.Writer); ok {
		w = cw
	} else if env, _ := ctx.Value(environmentKey).(string); env == "" || env == "local" {
		w = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	l := zerolog.New(w).With().Timestamp().Logger().Level(level)
	return l.WithContext(ctx), &l
}

// Logger returns the context logger tagged with a component name.
func Logger(ctx context.Context, component string) *zerolog.Logger {
	l := zerolog.Ctx(ctx).With().Str("component", component).Logger()
	return &l
}
