package logging

import (
	"context"
	"maps"
	"strconv"
	"strings"

	"github.com/goliatone/go-widget-classes/pkg/interfaces"
)

const (
	rootModule     = "widgetclasses"
	renderModule   = "widgetclasses.render"
	adminModule    = "widgetclasses.admin"
	settingsModule = "widgetclasses.settings"
	commandsModule = "widgetclasses.commands"
)

const (
	fieldWidgetID   = "widget_id"
	fieldInstance   = "instance"
	fieldOptionName = "option_name"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The module identifier is
// attached as a structured field.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// WithFields attaches a copy of fields when logger implements
// interfaces.FieldsLogger; any other logger is returned as is.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	fl, ok := logger.(interfaces.FieldsLogger)
	if !ok || len(fields) == 0 {
		return logger
	}
	return fl.WithFields(maps.Clone(fields))
}

// RenderLogger returns the logger used by the sidebar render filter.
func RenderLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, renderModule)
}

// AdminLogger returns the logger used by admin form handling.
func AdminLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, adminModule)
}

// SettingsLogger returns the logger used by option stores.
func SettingsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, settingsModule)
}

// CommandsLogger returns the logger used by command handlers.
func CommandsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, commandsModule)
}

// WithWidgetContext annotates logger with the widget id, instance number and
// option name. Blank values and negative numbers are skipped.
func WithWidgetContext(logger interfaces.Logger, widgetID string, number int, optionName string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(widgetID); trimmed != "" {
		fields[fieldWidgetID] = trimmed
	}
	if number >= 0 {
		fields[fieldInstance] = strconv.Itoa(number)
	}
	if trimmed := strings.TrimSpace(optionName); trimmed != "" {
		fields[fieldOptionName] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
