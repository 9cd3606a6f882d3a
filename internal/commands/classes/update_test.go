package classescmd

import (
	"context"
	"errors"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-command/dispatcher"
	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-widget-classes/internal/admin"
	"github.com/goliatone/go-widget-classes/internal/permissions"
	"github.com/goliatone/go-widget-classes/internal/settings"
	"github.com/goliatone/go-widget-classes/internal/widgets"
)

func newAdminService(t *testing.T, opts ...admin.Option) (*admin.Service, *settings.MemoryStore) {
	t.Helper()

	registry := widgets.NewRegistry()
	if _, err := registry.Register(widgets.Descriptor{ID: "text-3"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	store := settings.NewMemoryStore()
	return admin.NewService(store, registry, opts...), store
}

func TestUpdateWidgetClassesCommandValidate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		widget  string
		wantErr bool
	}{
		{"valid", "text-3", false},
		{"missing", " ", true},
		{"no number", "text", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := UpdateWidgetClassesCommand{WidgetID: tc.widget}.Validate()
			if tc.wantErr {
				var errs validation.Errors
				if !errors.As(err, &errs) || errs["widget_id"] == nil {
					t.Fatalf("expected widget_id validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	}
}

func TestUpdateWidgetClassesHandlerSaves(t *testing.T) {
	t.Parallel()

	svc, store := newAdminService(t)
	handler := NewUpdateWidgetClassesHandler(svc, nil)

	if err := handler.Execute(context.Background(), UpdateWidgetClassesCommand{WidgetID: "text-3", Classes: " hero\twide "}); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	options, err := store.Get(context.Background(), "widget_text")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got := settings.Classes(options.Instance(3)); got != "hero wide" {
		t.Fatalf("expected sanitized classes, got %q", got)
	}
}

func TestUpdateWidgetClassesHandlerErrors(t *testing.T) {
	t.Parallel()

	svc, _ := newAdminService(t)
	handler := NewUpdateWidgetClassesHandler(svc, nil)

	err := handler.Execute(context.Background(), UpdateWidgetClassesCommand{WidgetID: "bad"})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}

	err = handler.Execute(context.Background(), UpdateWidgetClassesCommand{WidgetID: "calendar-1"})
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) || !errors.Is(err, widgets.ErrWidgetNotRegistered) {
		t.Fatalf("expected wrapped not-registered error, got %v", err)
	}

	denied := permissions.WithPermissions(context.Background(), "read")
	err = handler.Execute(denied, UpdateWidgetClassesCommand{WidgetID: "text-3", Classes: "hero"})
	if !goerrors.IsCategory(err, goerrors.CategoryAuthz) || !permissions.IsDenied(err) {
		t.Fatalf("expected authorization error, got %v", err)
	}
}

func TestUpdateWidgetClassesHandlerDispatch(t *testing.T) {
	svc, store := newAdminService(t)
	handler := NewUpdateWidgetClassesHandler(svc, nil)

	sub := handler.Subscribe()
	t.Cleanup(sub.Unsubscribe)

	if err := dispatcher.Dispatch(context.Background(), UpdateWidgetClassesCommand{WidgetID: "text-3", Classes: "dispatched"}); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	options, err := store.Get(context.Background(), "widget_text")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got := settings.Classes(options.Instance(3)); got != "dispatched" {
		t.Fatalf("expected dispatched classes, got %q", got)
	}
}
