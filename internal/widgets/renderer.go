package widgets

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-widget-classes/internal/classes"
	"github.com/goliatone/go-widget-classes/internal/logging"
	"github.com/goliatone/go-widget-classes/internal/markup"
	"github.com/goliatone/go-widget-classes/internal/settings"
	"github.com/goliatone/go-widget-classes/pkg/interfaces"
)

const defaultAttribute = "class"

// Renderer merges stored custom classes into sidebar wrapper markup.
type Renderer struct {
	registry     *Registry
	store        settings.Store
	normalizer   *classes.Normalizer
	contributors []classes.Contributor
	logger       interfaces.Logger
	attribute    string
	unique       bool
	settingsKey  string
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithNormalizer replaces the base normalizer. The renderer works on a copy,
// so contributors added with WithContributors never reach the caller's value.
func WithNormalizer(normalizer *classes.Normalizer) RendererOption {
	return func(r *Renderer) {
		if normalizer != nil {
			r.normalizer = normalizer
		}
	}
}

// WithContributors appends contributors after the normalizer's own chain,
// regardless of where WithNormalizer appears in the option list.
func WithContributors(contributors ...classes.Contributor) RendererOption {
	return func(r *Renderer) {
		r.contributors = append(r.contributors, contributors...)
	}
}

// WithLogger overrides the render logger.
func WithLogger(logger interfaces.Logger) RendererOption {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithAttribute changes the attribute classes are merged into.
func WithAttribute(attribute string) RendererOption {
	return func(r *Renderer) {
		if trimmed := strings.TrimSpace(attribute); trimmed != "" {
			r.attribute = trimmed
		}
	}
}

// WithUniqueMerge toggles between unique merge and the append fast path.
func WithUniqueMerge(unique bool) RendererOption {
	return func(r *Renderer) {
		r.unique = unique
	}
}

// WithSettingsKey changes the record key holding the raw classes string.
func WithSettingsKey(key string) RendererOption {
	return func(r *Renderer) {
		if trimmed := strings.TrimSpace(key); trimmed != "" {
			r.settingsKey = trimmed
		}
	}
}

// NewRenderer wires the registry and option store used to resolve classes.
func NewRenderer(registry *Registry, store settings.Store, opts ...RendererOption) *Renderer {
	r := &Renderer{
		registry:    registry,
		store:       store,
		normalizer:  classes.NewNormalizer(),
		logger:      logging.RenderLogger(nil),
		attribute:   defaultAttribute,
		unique:      true,
		settingsKey: settings.ClassesKey,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.normalizer = classes.NewNormalizer(append(r.normalizer.Contributors(), r.contributors...)...)
	r.contributors = nil
	return r
}

// Apply returns params with the widget's custom classes merged into
// BeforeWidget. Admin requests, unknown widgets and empty class lists leave
// params untouched.
func (r *Renderer) Apply(ctx context.Context, params SidebarParams) SidebarParams {
	if r == nil || IsAdmin(ctx) || strings.TrimSpace(params.WidgetID) == "" {
		return params
	}
	desc, ok := r.registry.Lookup(params.WidgetID)
	if !ok {
		return params
	}

	logger := logging.WithWidgetContext(logging.FromContext(ctx, r.logger), desc.ID, desc.Number, desc.OptionName)
	options, err := r.load(ctx, desc)
	if err != nil {
		logger.Warn("widget options unavailable", "error", err)
		options = nil
	}

	tokens := r.normalize(desc, options)
	if tokens == "" {
		return params
	}
	params.BeforeWidget = markup.MergeAttribute(params.BeforeWidget, r.attribute, tokens, r.unique)
	logger.Debug("widget classes applied", "classes", tokens)
	return params
}

// ApplyAll runs Apply over every widget of a sidebar.
func (r *Renderer) ApplyAll(ctx context.Context, params []SidebarParams) []SidebarParams {
	out := make([]SidebarParams, len(params))
	for i, p := range params {
		out[i] = r.Apply(ctx, p)
	}
	return out
}

// Classes returns the normalized token string for widgetID without touching
// any markup.
func (r *Renderer) Classes(ctx context.Context, widgetID string) (string, error) {
	if r == nil {
		return "", fmt.Errorf("%w: %s", ErrWidgetNotRegistered, strings.TrimSpace(widgetID))
	}
	desc, ok := r.registry.Lookup(widgetID)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrWidgetNotRegistered, strings.TrimSpace(widgetID))
	}
	options, err := r.load(ctx, desc)
	if err != nil {
		return "", err
	}
	return r.normalize(desc, options), nil
}

// load reads the option collection. A missing collection is not an error.
func (r *Renderer) load(ctx context.Context, desc Descriptor) (settings.InstanceOptions, error) {
	if r.store == nil {
		return nil, nil
	}
	options, err := r.store.Get(ctx, desc.OptionName)
	if err != nil {
		if settings.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return options, nil
}

func (r *Renderer) normalize(desc Descriptor, options settings.InstanceOptions) string {
	record := options.Instance(desc.Number)
	rc := classes.RenderContext{
		WidgetID:   desc.ID,
		Number:     desc.Number,
		Options:    options.Raw(),
		Descriptor: desc,
	}
	if record != nil {
		rc.Settings = map[string]any(record)
	}
	return r.normalizer.Normalize(settings.Value(record, r.settingsKey), rc)
}
