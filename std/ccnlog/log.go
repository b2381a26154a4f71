// Package ccnlog is the structured logging facade used throughout
// std/ccn, backed by log/slog. Call sites pass the originating
// component first ("mod") so every line is tagged with where it came
// from, the way the rest of this client's ancestor library tags every
// log line with its component name.
package ccnlog

import (
	"context"
	"fmt"
	"log/slog"
	"os"
)

var levelVar = new(slog.LevelVar)

var defaultLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
	Level: levelVar,
}))

// Default returns the package's slog.Logger, for callers that want to
// build their own structured entries directly.
func Default() *slog.Logger {
	return defaultLogger
}

// SetLevel adjusts the minimum level that reaches the handler.
func SetLevel(level Level) {
	levelVar.Set(slog.Level(level))
}

func moduleAttr(mod any) slog.Attr {
	if s, ok := mod.(fmt.Stringer); ok {
		return slog.String("mod", s.String())
	}
	return slog.Any("mod", mod)
}

// Trace logs at LevelTrace.
func Trace(mod any, msg string, args ...any) {
	defaultLogger.Log(context.Background(), slog.Level(LevelTrace), msg,
		append([]any{moduleAttr(mod)}, args...)...)
}

// Debug logs at LevelDebug.
func Debug(mod any, msg string, args ...any) {
	defaultLogger.Log(context.Background(), slog.Level(LevelDebug), msg,
		append([]any{moduleAttr(mod)}, args...)...)
}

// Info logs at LevelInfo.
func Info(mod any, msg string, args ...any) {
	defaultLogger.Log(context.Background(), slog.Level(LevelInfo), msg,
		append([]any{moduleAttr(mod)}, args...)...)
}

// Warn logs at LevelWarn.
func Warn(mod any, msg string, args ...any) {
	defaultLogger.Log(context.Background(), slog.Level(LevelWarn), msg,
		append([]any{moduleAttr(mod)}, args...)...)
}

// Error logs at LevelError.
func Error(mod any, msg string, args ...any) {
	defaultLogger.Log(context.Background(), slog.Level(LevelError), msg,
		append([]any{moduleAttr(mod)}, args...)...)
}

// Fatal logs at LevelFatal and terminates the process. It is reserved
// for the "can't happen" conditions the C ancestor calls
// abort()/exit() for — never for an ordinary recoverable error.
func Fatal(mod any, msg string, args ...any) {
	defaultLogger.Log(context.Background(), slog.Level(LevelFatal), msg,
		append([]any{moduleAttr(mod)}, args...)...)
	os.Exit(1)
}
