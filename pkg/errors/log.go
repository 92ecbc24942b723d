package errors

import (
	"context"

	"go.uber.org/zap"

	"github.com/go-drift/conductor/pkg/logging"
)

// LogHandler is an ErrorHandler that writes errors through a zap logger.
type LogHandler struct {
	// Verbose enables stack traces in the output.
	Verbose bool
	// Logger receives the entries. Nil uses logging.Default().
	Logger *logging.Logger
}

func (h *LogHandler) logger() *logging.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return logging.Default()
}

// HandleError logs a LifecycleError at error level.
func (h *LogHandler) HandleError(err *LifecycleError) {
	if err == nil {
		return
	}
	fields := []zap.Field{
		zap.String("op", err.Op),
		zap.String("kind", err.Kind.String()),
		zap.Error(err.Err),
	}
	if err.Subject != "" {
		fields = append(fields, zap.String("subject", err.Subject))
	}
	if h.Verbose && err.StackTrace != "" {
		fields = append(fields, zap.String("stack", err.StackTrace))
	}
	h.logger().Error(context.Background(), "lifecycle error", fields...)
}

// HandlePanic logs a PanicError at error level.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	fields := []zap.Field{zap.Any("value", err.Value)}
	if err.Op != "" {
		fields = append(fields, zap.String("op", err.Op))
	}
	if h.Verbose && err.StackTrace != "" {
		fields = append(fields, zap.String("stack", err.StackTrace))
	}
	h.logger().Error(context.Background(), "recovered panic", fields...)
}
