package commands

import (
	"context"
	"errors"
	"time"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-widget-classes/internal/logging"
	"github.com/goliatone/go-widget-classes/pkg/interfaces"
)

// TelemetryStatus classifies how a command execution ended.
type TelemetryStatus string

const (
	TelemetryStatusSuccess      TelemetryStatus = "success"
	TelemetryStatusFailed       TelemetryStatus = "failed"
	TelemetryStatusContextError TelemetryStatus = "context_error"
)

// statusFor classifies the raw error returned by an exec function, before
// any wrapping.
func statusFor(execErr, ctxErr error) TelemetryStatus {
	switch {
	case execErr == nil && ctxErr == nil:
		return TelemetryStatusSuccess
	case execErr == nil:
		return TelemetryStatusContextError
	case errors.Is(execErr, context.Canceled), errors.Is(execErr, context.DeadlineExceeded):
		return TelemetryStatusContextError
	default:
		return TelemetryStatusFailed
	}
}

// TelemetryInfo is handed to telemetry callbacks after every execution.
// Logger already carries the command and operation fields.
type TelemetryInfo struct {
	Command   string
	Operation string
	Fields    map[string]any
	Duration  time.Duration
	Error     error
	Status    TelemetryStatus
	Logger    interfaces.Logger
}

// Args returns the key/value pairs logged for info.
func (info TelemetryInfo) Args() []any {
	args := []any{"status", string(info.Status), "duration_ms", info.Duration.Milliseconds()}
	if info.Error != nil {
		args = append(args, "error", info.Error)
	}
	return args
}

// Telemetry is an optional callback invoked after command execution.
type Telemetry[T command.Message] func(ctx context.Context, msg T, info TelemetryInfo)

// ChainTelemetry runs callbacks in order, skipping nil entries.
func ChainTelemetry[T command.Message](callbacks ...Telemetry[T]) Telemetry[T] {
	return func(ctx context.Context, msg T, info TelemetryInfo) {
		for _, cb := range callbacks {
			if cb != nil {
				cb(ctx, msg, info)
			}
		}
	}
}

// DefaultTelemetry logs one line per execution: info on success, error
// otherwise. info.Logger wins over logger when set.
func DefaultTelemetry[T command.Message](logger interfaces.Logger) Telemetry[T] {
	if logger == nil {
		logger = logging.NoOp()
	}
	return func(_ context.Context, _ T, info TelemetryInfo) {
		entry := logger
		if info.Logger != nil {
			entry = info.Logger
		}
		if info.Status == TelemetryStatusSuccess {
			entry.Info("command.execute.completed", info.Args()...)
			return
		}
		entry.Error("command.execute."+string(info.Status), info.Args()...)
	}
}
