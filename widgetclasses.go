package widgetclasses

import (
	"context"

	"github.com/goliatone/go-widget-classes/internal/admin"
	"github.com/goliatone/go-widget-classes/internal/classes"
	classescmd "github.com/goliatone/go-widget-classes/internal/commands/classes"
	"github.com/goliatone/go-widget-classes/internal/di"
	"github.com/goliatone/go-widget-classes/internal/markup"
	"github.com/goliatone/go-widget-classes/internal/permissions"
	"github.com/goliatone/go-widget-classes/internal/settings"
	"github.com/goliatone/go-widget-classes/internal/widgets"
)

// Descriptor identifies a widget instance and its option collection.
type Descriptor = widgets.Descriptor

// SidebarParams carries the wrapper markup for one widget render.
type SidebarParams = widgets.SidebarParams

// InstanceSettings is the persisted settings record of one widget instance.
type InstanceSettings = settings.InstanceSettings

// Store persists widget option collections.
type Store = settings.Store

// RenderContext describes the widget being rendered to class contributors.
type RenderContext = classes.RenderContext

// Contributor adjusts the token list before it is merged into markup.
type Contributor = classes.Contributor

// LabelFilter rewrites the admin field label.
type LabelFilter = admin.LabelFilter

// FieldAction receives the rendered admin fields so hosts can append their own.
type FieldAction = admin.FieldAction

// SaveInput carries one admin form submission.
type SaveInput = admin.SaveInput

// UpdateClassesCommand stores classes for a widget through the command bus.
type UpdateClassesCommand = classescmd.UpdateWidgetClassesCommand

// Option configures the module container.
type Option = di.Option

var (
	WithLoggerProvider   = di.WithLoggerProvider
	WithAuth             = di.WithAuth
	WithBunDB            = di.WithBunDB
	WithCache            = di.WithCache
	WithStore            = di.WithStore
	WithRegistry         = di.WithRegistry
	WithClassContributor = di.WithClassContributor
	WithLabelFilter      = di.WithLabelFilter
	WithFormFieldAction  = di.WithFormFieldAction
	WithActivityHook     = di.WithActivityHook
	WithActivitySink     = di.WithActivitySink
)

var (
	ErrModuleDisabled      = di.ErrModuleDisabled
	ErrWidgetNotRegistered = widgets.ErrWidgetNotRegistered
	ErrDescriptorInvalid   = widgets.ErrDescriptorInvalid
	ErrPermissionDenied    = permissions.ErrPermissionDenied
)

// Module is the top level widget classes runtime façade.
type Module struct {
	container *di.Container
}

// New constructs the module using cfg and optional DI overrides.
func New(cfg Config, opts ...Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Close releases storage owned by the module.
func (m *Module) Close() error {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Close()
}

// Store returns the configured settings store.
func (m *Module) Store() Store {
	return m.container.Store()
}

// Register makes a widget instance known to the renderer and admin glue.
func (m *Module) Register(desc Descriptor) (Descriptor, error) {
	return m.container.Registry().Register(desc)
}

// Unregister forgets a widget instance.
func (m *Module) Unregister(widgetID string) {
	m.container.Registry().Unregister(widgetID)
}

// Widgets lists the registered widget instances ordered by id.
func (m *Module) Widgets() []Descriptor {
	return m.container.Registry().List()
}

// Apply merges the widget's custom classes into params.BeforeWidget.
func (m *Module) Apply(ctx context.Context, params SidebarParams) SidebarParams {
	return m.container.Renderer().Apply(ctx, params)
}

// ApplyAll runs Apply over every widget of a sidebar.
func (m *Module) ApplyAll(ctx context.Context, params []SidebarParams) []SidebarParams {
	return m.container.Renderer().ApplyAll(ctx, params)
}

// Classes returns the normalized class tokens stored for widgetID.
func (m *Module) Classes(ctx context.Context, widgetID string) (string, error) {
	return m.container.Renderer().Classes(ctx, widgetID)
}

// Form renders the admin field for widgetID.
func (m *Module) Form(ctx context.Context, widgetID string) (string, error) {
	return m.container.AdminService().Form(ctx, widgetID)
}

// Save sanitizes and persists an admin form submission.
func (m *Module) Save(ctx context.Context, input SaveInput) (InstanceSettings, error) {
	return m.container.AdminService().Save(ctx, input)
}

// UpdateClasses runs the update command through its handler.
func (m *Module) UpdateClasses(ctx context.Context, cmd UpdateClassesCommand) error {
	return m.container.UpdateClassesHandler().Execute(ctx, cmd)
}

// ContextWithAdmin marks ctx as an admin request; Apply leaves markup alone.
func ContextWithAdmin(ctx context.Context) context.Context {
	return widgets.ContextWithAdmin(ctx)
}

// ContextWithPermissions grants perms to requests without an auth provider.
func ContextWithPermissions(ctx context.Context, perms ...string) context.Context {
	return permissions.WithPermissions(ctx, perms...)
}

// Normalize splits raw on spaces, drops duplicates and escapes the result.
func Normalize(raw string) string {
	return classes.Normalize(raw)
}

// MergeAttribute merges tokens into the first attr attribute of fragment.
func MergeAttribute(fragment, attr, tokens string, unique bool) string {
	return markup.MergeAttribute(fragment, attr, tokens, unique)
}
