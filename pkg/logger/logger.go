package logger

import (
	"context"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Options configures New. Zero values give JSON info-level logs on stdout.
type Options struct {
	ServiceName string
	Env         string
	Level       zerolog.Level
	// WarnStack attaches a goroutine stack to warn entries as well as errors.
	WarnStack bool
	// Console renders human-readable lines for local runs.
	Console bool
	Output  io.Writer
}

// Logger is a thin layer over zerolog that carries request-scoped fields
// through context.Context using zerolog's own context integration.
type Logger struct {
	base      zerolog.Logger
	warnStack bool
}

func New(opts Options) *Logger {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	if opts.Console {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05.000"}
	}
	level := opts.Level
	if level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.TimeFieldFormat = time.RFC3339Nano

	fields := zerolog.New(out).Level(level).With().Timestamp().Str("service", opts.ServiceName)
	if opts.Env != "" {
		fields = fields.Str("env", opts.Env)
	}
	return &Logger{base: fields.Logger(), warnStack: opts.WarnStack}
}

// Nop discards everything.
func Nop() *Logger {
	return &Logger{base: zerolog.Nop()}
}

// ParseLevel accepts zerolog level names in any case and falls back to info.
func ParseLevel(value string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(value)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// entry returns the logger stored on ctx, or the base logger when ctx has
// none. zerolog.Ctx reports a missing logger as a disabled one.
func (l *Logger) entry(ctx context.Context) *zerolog.Logger {
	if ctx != nil {
		if scoped := zerolog.Ctx(ctx); scoped.GetLevel() != zerolog.Disabled {
			return scoped
		}
	}
	return &l.base
}

func (l *Logger) with(ctx context.Context, build func(zerolog.Context) zerolog.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	scoped := build(l.entry(ctx).With()).Logger()
	return scoped.WithContext(ctx)
}

func (l *Logger) WithField(ctx context.Context, key string, value any) context.Context {
	return l.with(ctx, func(c zerolog.Context) zerolog.Context { return c.Interface(key, value) })
}

func (l *Logger) WithFields(ctx context.Context, fields map[string]any) context.Context {
	return l.with(ctx, func(c zerolog.Context) zerolog.Context { return c.Fields(fields) })
}

func (l *Logger) WithRequestID(ctx context.Context, id string) context.Context {
	return l.WithField(ctx, "request_id", id)
}

func (l *Logger) WithUserID(ctx context.Context, id string) context.Context {
	return l.WithField(ctx, "user_id", id)
}

func (l *Logger) WithOrderID(ctx context.Context, id string) context.Context {
	return l.WithField(ctx, "order_id", id)
}

func (l *Logger) WithShopID(ctx context.Context, id string) context.Context {
	return l.WithField(ctx, "shop_id", id)
}

func (l *Logger) Debug(ctx context.Context, msg string) { l.entry(ctx).Debug().Msg(msg) }

func (l *Logger) Info(ctx context.Context, msg string) { l.entry(ctx).Info().Msg(msg) }

func (l *Logger) Warn(ctx context.Context, msg string) {
	ev := l.entry(ctx).Warn()
	if l.warnStack {
		ev = ev.Str("stack", stack())
	}
	ev.Msg(msg)
}

// Error always records the stack; err may be nil.
func (l *Logger) Error(ctx context.Context, msg string, err error) {
	l.entry(ctx).Error().Err(err).Str("stack", stack()).Msg(msg)
}

func stack() string {
	return strings.TrimSpace(string(debug.Stack()))
}
