package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-widget-classes/internal/logging"
	"github.com/goliatone/go-widget-classes/internal/permissions"
	"github.com/goliatone/go-widget-classes/internal/settings"
	"github.com/goliatone/go-widget-classes/internal/widgets"
	"github.com/goliatone/go-widget-classes/pkg/activity"
	"github.com/goliatone/go-widget-classes/pkg/interfaces"
)

const (
	activityVerbUpdate   = "update"
	activityObjectWidget = "widget"
	activityDefinition   = "widget_classes:update"
)

var (
	// ErrStoreRequired indicates the service was constructed without a settings store.
	ErrStoreRequired = errors.New("widgetclasses admin: settings store is required")
	// ErrRegistryRequired indicates the service was constructed without a widget registry.
	ErrRegistryRequired = errors.New("widgetclasses admin: widget registry is required")
	ErrWidgetIDRequired = errors.New("widgetclasses admin: widget id is required")
)

// SaveInput carries one submitted widget form.
type SaveInput struct {
	WidgetID  string
	Submitted settings.InstanceSettings
}

// Service renders the admin field and persists submitted classes.
type Service struct {
	store      settings.Store
	registry   *widgets.Registry
	auth       interfaces.AuthProvider
	permission string
	field      *FormField
	logger     interfaces.Logger
	activity   *activity.Emitter
}

// Option mutates the service configuration.
type Option func(*Service)

// WithServiceAuth sets the provider used to authorise saves.
func WithServiceAuth(auth interfaces.AuthProvider) Option {
	return func(s *Service) {
		s.auth = auth
	}
}

// WithSavePermission overrides the capability required to save.
func WithSavePermission(permission string) Option {
	return func(s *Service) {
		s.permission = strings.TrimSpace(permission)
	}
}

// WithFormField replaces the field renderer.
func WithFormField(field *FormField) Option {
	return func(s *Service) {
		if field != nil {
			s.field = field
		}
	}
}

// WithActivity emits an activity event after every successful save.
func WithActivity(emitter *activity.Emitter) Option {
	return func(s *Service) {
		s.activity = emitter
	}
}

func WithServiceLogger(logger interfaces.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService constructs the admin service.
func NewService(store settings.Store, registry *widgets.Registry, opts ...Option) *Service {
	s := &Service{
		store:      store,
		registry:   registry,
		permission: permissions.EditThemeOptions,
		logger:     logging.AdminLogger(nil),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.field == nil {
		s.field = NewFormField(WithAuth(s.auth), WithPermission(s.permission), WithFieldLogger(s.logger))
	}
	return s
}

// Field exposes the configured field renderer.
func (s *Service) Field() *FormField {
	return s.field
}

// Form renders the classes field for a registered widget using its stored record.
func (s *Service) Form(ctx context.Context, widgetID string) (string, error) {
	desc, err := s.resolve(widgetID)
	if err != nil {
		return "", err
	}
	options, err := s.load(ctx, desc)
	if err != nil {
		return "", err
	}
	return s.field.Render(ctx, desc, options.Instance(desc.Number))
}

// Save sanitizes the submitted classes and stores them on the widget's
// instance record. Other keys of the stored record are preserved.
func (s *Service) Save(ctx context.Context, input SaveInput) (settings.InstanceSettings, error) {
	desc, err := s.resolve(input.WidgetID)
	if err != nil {
		return nil, err
	}
	if err := permissions.Check(ctx, s.auth, s.permission); err != nil {
		return nil, err
	}

	options, err := s.load(ctx, desc)
	if err != nil {
		return nil, err
	}
	next := updateInstance(options.Instance(desc.Number), input.Submitted, s.field.FieldKey())

	saved, err := s.store.SaveInstance(ctx, desc.OptionName, desc.Number, next)
	if err != nil {
		return nil, fmt.Errorf("widgetclasses admin: save %s: %w", desc.ID, err)
	}

	logger := logging.WithWidgetContext(logging.FromContext(ctx, s.logger), desc.ID, desc.Number, desc.OptionName)
	classes := settings.Value(saved, s.field.FieldKey())
	logger.Info("widget classes saved", "classes", classes)

	if err := s.emitSaved(ctx, desc, classes); err != nil {
		logger.Warn("widget classes activity failed", "error", err)
	}
	return saved, nil
}

func (s *Service) emitSaved(ctx context.Context, desc widgets.Descriptor, classes string) error {
	if !s.activity.Enabled() {
		return nil
	}
	actor := ""
	if s.auth != nil {
		if id, err := s.auth.CurrentUserID(ctx); err == nil {
			actor = id
		}
	}
	return s.activity.Emit(ctx, activity.Event{
		Verb:           activityVerbUpdate,
		ActorID:        actor,
		UserID:         actor,
		ObjectType:     activityObjectWidget,
		ObjectID:       desc.ID,
		DefinitionCode: activityDefinition,
		Metadata: map[string]any{
			"option_name": desc.OptionName,
			"number":      desc.Number,
			"classes":     classes,
		},
	})
}

func (s *Service) resolve(widgetID string) (widgets.Descriptor, error) {
	if s.store == nil {
		return widgets.Descriptor{}, ErrStoreRequired
	}
	if s.registry == nil {
		return widgets.Descriptor{}, ErrRegistryRequired
	}
	widgetID = strings.TrimSpace(widgetID)
	if widgetID == "" {
		return widgets.Descriptor{}, ErrWidgetIDRequired
	}
	desc, ok := s.registry.Lookup(widgetID)
	if !ok {
		return widgets.Descriptor{}, fmt.Errorf("%w: %s", widgets.ErrWidgetNotRegistered, widgetID)
	}
	return desc, nil
}

func (s *Service) load(ctx context.Context, desc widgets.Descriptor) (settings.InstanceOptions, error) {
	options, err := s.store.Get(ctx, desc.OptionName)
	if err != nil && !settings.IsNotFound(err) {
		return nil, err
	}
	return options, nil
}
