package admin

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-slug"
	"golang.org/x/net/html"

	"github.com/goliatone/go-widget-classes/internal/logging"
	"github.com/goliatone/go-widget-classes/internal/permissions"
	"github.com/goliatone/go-widget-classes/internal/settings"
	"github.com/goliatone/go-widget-classes/internal/widgets"
	"github.com/goliatone/go-widget-classes/pkg/interfaces"
)

const (
	DefaultLabel      = "Custom Classes"
	DefaultInputClass = "widefat"
)

// LabelFilter rewrites the field label. Filters run in registration order,
// each receiving the previous result.
type LabelFilter func(label string) string

// FieldAction observes the rendered field markup and the instance record. It
// runs even when the permission gate suppressed the field.
type FieldAction func(ctx context.Context, fields string, instance settings.InstanceSettings)

// FormField renders the custom classes input for a widget admin form.
type FormField struct {
	auth         interfaces.AuthProvider
	permission   string
	label        string
	fieldKey     string
	inputClass   string
	labelFilters []LabelFilter
	actions      []FieldAction
	logger       interfaces.Logger
}

// FieldOption configures a FormField.
type FieldOption func(*FormField)

// WithAuth sets the provider used for the permission gate.
func WithAuth(auth interfaces.AuthProvider) FieldOption {
	return func(f *FormField) {
		f.auth = auth
	}
}

// WithPermission overrides the capability required to see the field.
func WithPermission(permission string) FieldOption {
	return func(f *FormField) {
		f.permission = strings.TrimSpace(permission)
	}
}

func WithLabel(label string) FieldOption {
	return func(f *FormField) {
		if strings.TrimSpace(label) != "" {
			f.label = label
		}
	}
}

func WithFieldKey(key string) FieldOption {
	return func(f *FormField) {
		if trimmed := strings.TrimSpace(key); trimmed != "" {
			f.fieldKey = trimmed
		}
	}
}

func WithInputClass(class string) FieldOption {
	return func(f *FormField) {
		if trimmed := strings.TrimSpace(class); trimmed != "" {
			f.inputClass = trimmed
		}
	}
}

func WithLabelFilter(filter LabelFilter) FieldOption {
	return func(f *FormField) {
		if filter != nil {
			f.labelFilters = append(f.labelFilters, filter)
		}
	}
}

func WithFieldAction(action FieldAction) FieldOption {
	return func(f *FormField) {
		if action != nil {
			f.actions = append(f.actions, action)
		}
	}
}

func WithFieldLogger(logger interfaces.Logger) FieldOption {
	return func(f *FormField) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewFormField constructs a field renderer with the default label, key and permission.
func NewFormField(opts ...FieldOption) *FormField {
	f := &FormField{
		permission: permissions.EditThemeOptions,
		label:      DefaultLabel,
		fieldKey:   settings.ClassesKey,
		inputClass: DefaultInputClass,
		logger:     logging.AdminLogger(nil),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FieldKey reports the record key the field reads and writes.
func (f *FormField) FieldKey() string {
	return f.fieldKey
}

// Render returns the field markup for one widget instance. Users without the
// required permission get an empty string.
func (f *FormField) Render(ctx context.Context, widget widgets.Descriptor, instance settings.InstanceSettings) (string, error) {
	instance = instance.Clone()
	if instance == nil {
		instance = settings.InstanceSettings{}
	}
	if _, ok := instance[f.fieldKey]; !ok {
		instance[f.fieldKey] = ""
	}

	logger := logging.WithWidgetContext(logging.FromContext(ctx, f.logger), widget.ID, widget.Number, widget.OptionName)

	fields := ""
	err := permissions.Check(ctx, f.auth, f.permission)
	switch {
	case err == nil:
		fields = f.markup(widget, settings.Value(instance, f.fieldKey))
	case permissions.IsDenied(err):
		logger.Debug("classes field hidden", "permission", f.permission)
	default:
		return "", err
	}

	for _, action := range f.actions {
		action(ctx, fields, instance.Clone())
	}
	return fields, nil
}

// Label returns the field label after the filter chain.
func (f *FormField) Label() string {
	label := html.EscapeString(f.label)
	for _, filter := range f.labelFilters {
		label = filter(label)
	}
	return label
}

func (f *FormField) markup(widget widgets.Descriptor, value string) string {
	id := html.EscapeString(FieldID(widget, f.fieldKey))
	name := html.EscapeString(FieldName(widget, f.fieldKey))

	var b strings.Builder
	b.WriteString(`<p><label for="`)
	b.WriteString(id)
	b.WriteString(`">`)
	b.WriteString(f.Label())
	b.WriteString(`</label>`)
	fmt.Fprintf(&b, "<input type='text' name='%s' id='%s' value='%s' class='%s' />",
		name, id, html.EscapeString(value), html.EscapeString(f.inputClass))
	b.WriteString(`</p>`)
	return b.String()
}

// FieldName follows the host convention widget-<id_base>[<number>][<key>].
func FieldName(widget widgets.Descriptor, key string) string {
	return "widget-" + widget.IDBase + "[" + strconv.Itoa(widget.Number) + "][" + key + "]"
}

// FieldID returns a stable element id for the field.
func FieldID(widget widgets.Descriptor, key string) string {
	base := widget.IDBase
	if normalized, err := slug.Normalize(base); err == nil && normalized != "" {
		base = normalized
	}
	return "widget-" + base + "-" + strconv.Itoa(widget.Number) + "-" + key
}
