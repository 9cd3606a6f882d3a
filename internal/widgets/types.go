package widgets

import "context"

// Descriptor identifies one widget placement and the option collection that
// stores its settings.
type Descriptor struct {
	// ID is the rendered widget id, e.g. "text-3".
	ID string
	// IDBase is the widget type, e.g. "text".
	IDBase string
	// Number selects the instance record inside the option collection.
	Number int
	// OptionName is the settings key, e.g. "widget_text".
	OptionName string
	Name       string
}

// SidebarParams carries the wrapper markup the host emits around a widget.
type SidebarParams struct {
	SidebarID    string
	WidgetID     string
	WidgetName   string
	BeforeWidget string
	AfterWidget  string
	BeforeTitle  string
	AfterTitle   string
}

type adminContextKey struct{}

// ContextWithAdmin marks ctx as an admin request. The render filter leaves
// markup untouched for such requests.
func ContextWithAdmin(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, adminContextKey{}, true)
}

// IsAdmin reports whether ctx was marked with ContextWithAdmin.
func IsAdmin(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	admin, _ := ctx.Value(adminContextKey{}).(bool)
	return admin
}
