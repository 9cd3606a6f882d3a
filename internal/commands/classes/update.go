package classescmd

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-command/dispatcher"

	"github.com/goliatone/go-widget-classes/internal/admin"
	"github.com/goliatone/go-widget-classes/internal/commands"
	"github.com/goliatone/go-widget-classes/internal/logging"
	"github.com/goliatone/go-widget-classes/internal/settings"
	"github.com/goliatone/go-widget-classes/internal/widgets"
	"github.com/goliatone/go-widget-classes/pkg/interfaces"
)

const updateWidgetClassesMessageType = "widgetclasses.classes.update"

// UpdateWidgetClassesCommand stores the raw classes string for one widget instance.
type UpdateWidgetClassesCommand struct {
	WidgetID string `json:"widget_id"`
	Classes  string `json:"classes"`
}

// Type implements command.Message.
func (UpdateWidgetClassesCommand) Type() string { return updateWidgetClassesMessageType }

// Validate ensures the widget id is present and well formed.
func (m UpdateWidgetClassesCommand) Validate() error {
	errs := validation.Errors{}
	widgetID := strings.TrimSpace(m.WidgetID)
	switch {
	case widgetID == "":
		errs["widget_id"] = validation.NewError("widgetclasses.classes.update.widget_id_required", "widget_id is required")
	default:
		if _, _, ok := widgets.ParseWidgetID(widgetID); !ok {
			errs["widget_id"] = validation.NewError("widgetclasses.classes.update.widget_id_invalid", "widget_id must look like <id_base>-<number>")
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpdateWidgetClassesHandler saves classes through the admin service.
type UpdateWidgetClassesHandler struct {
	inner *commands.Handler[UpdateWidgetClassesCommand]
}

// NewUpdateWidgetClassesHandler constructs a handler wired to the admin service.
func NewUpdateWidgetClassesHandler(service *admin.Service, logger interfaces.Logger, opts ...commands.HandlerOption[UpdateWidgetClassesCommand]) *UpdateWidgetClassesHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg UpdateWidgetClassesCommand) error {
		saved, err := service.Save(ctx, admin.SaveInput{
			WidgetID:  strings.TrimSpace(msg.WidgetID),
			Submitted: settings.InstanceSettings{service.Field().FieldKey(): msg.Classes},
		})
		if err != nil {
			return err
		}
		logging.WithFields(baseLogger, map[string]any{
			"widget_id": strings.TrimSpace(msg.WidgetID),
			"classes":   settings.Value(saved, service.Field().FieldKey()),
		}).Info("classes.command.update.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[UpdateWidgetClassesCommand]{
		commands.WithLogger[UpdateWidgetClassesCommand](baseLogger),
		commands.WithOperation[UpdateWidgetClassesCommand]("classes.update"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &UpdateWidgetClassesHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[UpdateWidgetClassesCommand].
func (h *UpdateWidgetClassesHandler) Execute(ctx context.Context, msg UpdateWidgetClassesCommand) error {
	return h.inner.Execute(ctx, msg)
}

// Subscribe registers the handler with the go-command dispatcher.
func (h *UpdateWidgetClassesHandler) Subscribe() commands.Subscription {
	return dispatcher.SubscribeCommand(h)
}
