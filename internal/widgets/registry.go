package widgets

import (
	"errors"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// OptionPrefix is prepended to the id base to form the settings key.
const OptionPrefix = "widget_"

var (
	ErrDescriptorInvalid   = errors.New("widgets: descriptor requires an id or id base")
	ErrWidgetNotRegistered = errors.New("widgets: widget not registered")
)

// Registry maps rendered widget ids to their descriptors.
type Registry struct {
	mu          sync.RWMutex
	descriptors map[string]Descriptor
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		descriptors: make(map[string]Descriptor),
	}
}

// Register stores desc, deriving the id, id base, number and option name
// from whichever of them are present. Registering an id twice replaces the
// earlier descriptor.
func (r *Registry) Register(desc Descriptor) (Descriptor, error) {
	desc.ID = canonicalKey(desc.ID)
	desc.IDBase = strings.TrimSpace(desc.IDBase)

	if desc.ID != "" && desc.IDBase == "" {
		base, number, ok := ParseWidgetID(desc.ID)
		if !ok {
			return Descriptor{}, ErrDescriptorInvalid
		}
		desc.IDBase = base
		desc.Number = number
	}
	if desc.IDBase == "" || desc.Number < 0 {
		return Descriptor{}, ErrDescriptorInvalid
	}
	if desc.ID == "" {
		desc.ID = desc.IDBase + "-" + strconv.Itoa(desc.Number)
	}
	if strings.TrimSpace(desc.OptionName) == "" {
		desc.OptionName = OptionPrefix + desc.IDBase
	}
	desc.OptionName = strings.TrimSpace(desc.OptionName)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.descriptors == nil {
		r.descriptors = make(map[string]Descriptor)
	}
	r.descriptors[desc.ID] = desc
	return desc, nil
}

// Unregister removes the descriptor stored for widgetID.
func (r *Registry) Unregister(widgetID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.descriptors, canonicalKey(widgetID))
}

// Lookup resolves a rendered widget id.
func (r *Registry) Lookup(widgetID string) (Descriptor, bool) {
	if r == nil {
		return Descriptor{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	desc, ok := r.descriptors[canonicalKey(widgetID)]
	return desc, ok
}

// List returns all descriptors ordered by id.
func (r *Registry) List() []Descriptor {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Descriptor, 0, len(r.descriptors))
	for _, desc := range r.descriptors {
		out = append(out, desc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ParseWidgetID splits "text-3" into its id base and instance number. The
// number follows the last hyphen, so bases may contain hyphens themselves.
func ParseWidgetID(widgetID string) (string, int, bool) {
	widgetID = canonicalKey(widgetID)
	idx := strings.LastIndexByte(widgetID, '-')
	if idx <= 0 || idx == len(widgetID)-1 {
		return "", 0, false
	}
	digits := widgetID[idx+1:]
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return "", 0, false
		}
	}
	number, err := strconv.Atoi(digits)
	if err != nil {
		return "", 0, false
	}
	return widgetID[:idx], number, true
}

func canonicalKey(input string) string {
	return strings.TrimSpace(input)
}
