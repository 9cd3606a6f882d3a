package di_test

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-command/dispatcher"

	classescmd "github.com/goliatone/go-widget-classes/internal/commands/classes"
	"github.com/goliatone/go-widget-classes/internal/commands/fixtures"
	"github.com/goliatone/go-widget-classes/internal/di"
	"github.com/goliatone/go-widget-classes/internal/runtimeconfig"
	"github.com/goliatone/go-widget-classes/internal/settings"
	"github.com/goliatone/go-widget-classes/internal/widgets"
)

func TestRegisterCommandsRecordsHandlers(t *testing.T) {
	container, err := di.NewContainer(runtimeconfig.DefaultConfig())
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}

	registry := fixtures.NewRecordingRegistry()
	dispatcher := fixtures.NewRecordingDispatcher()

	result, err := di.RegisterCommands(container, di.RegistrationOptions{
		Registry:   registry,
		Dispatcher: dispatcher,
	})
	if err != nil {
		t.Fatalf("RegisterCommands returned error: %v", err)
	}
	if len(result.Handlers) != 1 || len(registry.Handlers) != 1 || len(dispatcher.Handlers) != 1 {
		t.Fatalf("expected one handler everywhere, got result=%d registry=%d dispatcher=%d",
			len(result.Handlers), len(registry.Handlers), len(dispatcher.Handlers))
	}
	if types := registry.Types(); types[0] != "*classescmd.UpdateWidgetClassesHandler" {
		t.Fatalf("unexpected handler types %v", types)
	}
	if len(result.Subscriptions) != 1 {
		t.Fatalf("expected one subscription, got %d", len(result.Subscriptions))
	}
	result.Subscriptions[0].Unsubscribe()
	if dispatcher.Active() != 0 {
		t.Fatalf("expected subscription to be released")
	}
}

func TestRegisterCommandsJoinsErrors(t *testing.T) {
	container, err := di.NewContainer(runtimeconfig.DefaultConfig())
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}

	registryErr := errors.New("registry down")
	dispatchErr := errors.New("dispatcher down")
	registry := fixtures.NewRecordingRegistry()
	registry.Err = registryErr
	dispatcher := fixtures.NewRecordingDispatcher()
	dispatcher.Err = dispatchErr

	result, err := di.RegisterCommands(container, di.RegistrationOptions{Registry: registry, Dispatcher: dispatcher})
	if !errors.Is(err, registryErr) || !errors.Is(err, dispatchErr) {
		t.Fatalf("expected joined errors, got %v", err)
	}
	if len(result.Handlers) != 1 || len(result.Subscriptions) != 0 {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestRegisterCommandsNilContainer(t *testing.T) {
	result, err := di.RegisterCommands(nil, di.RegistrationOptions{})
	if err != nil || len(result.Handlers) != 0 {
		t.Fatalf("expected empty result, got %+v, %v", result, err)
	}
}

func TestDispatcherSubscriberRoutesCommands(t *testing.T) {
	container, err := di.NewContainer(runtimeconfig.DefaultConfig())
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	if _, err := container.Registry().Register(widgets.Descriptor{ID: "archives-6"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	result, err := di.RegisterCommands(container, di.RegistrationOptions{Dispatcher: di.DispatcherSubscriber{}})
	if err != nil {
		t.Fatalf("RegisterCommands returned error: %v", err)
	}
	t.Cleanup(func() {
		for _, sub := range result.Subscriptions {
			sub.Unsubscribe()
		}
	})

	ctx := context.Background()
	if err := dispatcher.Dispatch(ctx, classescmd.UpdateWidgetClassesCommand{WidgetID: "archives-6", Classes: "sidebar-list"}); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	options, err := container.Store().Get(ctx, "widget_archives")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got := settings.Classes(options.Instance(6)); got != "sidebar-list" {
		t.Fatalf("expected dispatched classes, got %q", got)
	}
}

func TestDispatcherSubscriberRejectsPlainHandlers(t *testing.T) {
	if _, err := (di.DispatcherSubscriber{}).RegisterCommand(struct{}{}); !errors.Is(err, di.ErrHandlerNotSubscribable) {
		t.Fatalf("expected ErrHandlerNotSubscribable, got %v", err)
	}
}
