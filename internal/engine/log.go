package engine

import (
	"context"
	"io"
	"log/slog"
	"os"

	zapslog "github.com/tommoulard/zap-slog"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ductest/tscope/internal/prettylog"
)

// currentContext supplies the thread/timestep attributes a Driver's
// logHandler stamps onto every record. NewDriver builds it from closures
// over the Driver so that log.go stays free of a dependency on scheduler
// internals.
type currentContext struct {
	threadID func() (int, bool)
	timestep func() (int64, bool)
}

func makeLogger(cfg Config, out io.Writer, ctx currentContext) *slog.Logger {
	return slog.New(logHandler{inner: baseHandler(cfg, out), ctx: ctx})
}

// baseHandler builds the unwrapped slog.Handler for cfg.LogFormat, before
// logHandler decorates it with thread/timestep attributes.
func baseHandler(cfg Config, out io.Writer) slog.Handler {
	ho := &slog.HandlerOptions{
		Level:     cfg.logLevel(),
		AddSource: true,
	}
	switch cfg.logFormat() {
	case LogFormatRaw:
		return slog.NewJSONHandler(out, ho)
	case LogFormatPretty:
		return slog.NewJSONHandler(prettylog.NewWriter(out), ho)
	case LogFormatZap:
		return zapHandler(out, ho.Level)
	default:
		panic("unknown log format " + string(cfg.logFormat()))
	}
}

// zapHandler routes records through a zap core, letting a caller embed this
// driver's log output inside a larger zap-based test harness's log
// pipeline instead of maintaining a second sink.
func zapHandler(out io.Writer, level slog.Leveler) slog.Handler {
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.AddSync(out),
		zapLevel(level.Level()),
	)
	return zapslog.NewHandler(core)
}

func zapLevel(level slog.Level) zapcore.Level {
	switch {
	case level < slog.LevelInfo:
		return zapcore.DebugLevel
	case level < slog.LevelWarn:
		return zapcore.InfoLevel
	case level < slog.LevelError:
		return zapcore.WarnLevel
	default:
		return zapcore.ErrorLevel
	}
}

// logHandler decorates every record with the current thread id, when a
// thread is running, and the driver's current timestep, mirroring the teacher's
// wrapHandler which stamps machine/goroutine attributes onto each record.
type logHandler struct {
	inner slog.Handler
	ctx   currentContext
}

func (h logHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h logHandler) Handle(ctx context.Context, r slog.Record) error {
	if id, ok := h.ctx.threadID(); ok {
		r.AddAttrs(slog.Int("thread", id))
	}
	if ts, ok := h.ctx.timestep(); ok {
		r.AddAttrs(slog.Int64("timestep", ts))
	}
	return h.inner.Handle(ctx, r)
}

func (h logHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return logHandler{inner: h.inner.WithAttrs(attrs), ctx: h.ctx}
}

func (h logHandler) WithGroup(name string) slog.Handler {
	return logHandler{inner: h.inner.WithGroup(name), ctx: h.ctx}
}

func defaultLogWriter() io.Writer {
	return os.Stderr
}
