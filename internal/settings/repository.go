package settings

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ClassesKey is the record key holding the raw custom classes string.
const ClassesKey = "classes"

// ErrOptionNotFound indicates no collection is stored under the requested key.
var ErrOptionNotFound = errors.New("settings: option not found")

// ErrOptionNameRequired is returned when writing without an option name.
var ErrOptionNameRequired = errors.New("settings: option name required")

// ErrInstanceNumberInvalid is returned for negative instance numbers.
var ErrInstanceNumberInvalid = errors.New("settings: instance number must be zero or positive")

// InstanceSettings is the settings record of a single widget instance.
type InstanceSettings map[string]any

// InstanceOptions maps instance numbers to their settings records. One
// collection is stored per widget type.
type InstanceOptions map[int]InstanceSettings

// Store persists widget option collections keyed by option name.
type Store interface {
	Get(ctx context.Context, key string) (InstanceOptions, error)
	Save(ctx context.Context, key string, options InstanceOptions) (InstanceOptions, error)
	SaveInstance(ctx context.Context, key string, number int, record InstanceSettings) (InstanceSettings, error)
	Delete(ctx context.Context, key string) error
	Subscribe(ctx context.Context) (<-chan ChangeEvent, error)
}

// NotFoundError is returned when an option record cannot be located.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

func (e *NotFoundError) Unwrap() error {
	return ErrOptionNotFound
}

// ChangeType enumerates option change events.
type ChangeType string

const (
	ChangeCreated ChangeType = "created"
	ChangeUpdated ChangeType = "updated"
	ChangeDeleted ChangeType = "deleted"
)

// ChangeEvent reports option mutations to subscribers.
type ChangeEvent struct {
	Type    ChangeType
	Key     string
	Options InstanceOptions
}

// IsNotFound reports whether err signals a missing option collection.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrOptionNotFound)
}

// Classes returns the raw classes string stored in record.
func Classes(record InstanceSettings) string {
	return Value(record, ClassesKey)
}

// Value returns record[key] as a string. Non-string scalars are formatted,
// anything else yields an empty string.
func Value(record InstanceSettings, key string) string {
	if record == nil {
		return ""
	}
	switch value := record[key].(type) {
	case nil:
		return ""
	case string:
		return value
	case fmt.Stringer:
		return value.String()
	case bool:
		if value {
			return "1"
		}
		return ""
	case int, int64, int32, float64, float32, uint, uint64, uint32:
		return fmt.Sprint(value)
	default:
		return ""
	}
}

// Instance returns the record stored for number, or nil.
func (o InstanceOptions) Instance(number int) InstanceSettings {
	if o == nil {
		return nil
	}
	return o[number]
}

// Clone returns a deep copy of the collection.
func (o InstanceOptions) Clone() InstanceOptions {
	if o == nil {
		return nil
	}
	out := make(InstanceOptions, len(o))
	for number, record := range o {
		out[number] = record.Clone()
	}
	return out
}

// Clone returns a deep copy of the record.
func (s InstanceSettings) Clone() InstanceSettings {
	if s == nil {
		return nil
	}
	return InstanceSettings(deepCloneMap(s))
}

// Raw converts the collection into the generic shape consumed by render
// contributors.
func (o InstanceOptions) Raw() map[int]map[string]any {
	if o == nil {
		return nil
	}
	out := make(map[int]map[string]any, len(o))
	for number, record := range o {
		out[number] = map[string]any(record)
	}
	return out
}

func optionsToDocument(options InstanceOptions) map[string]any {
	doc := make(map[string]any, len(options))
	for number, record := range options {
		doc[strconv.Itoa(number)] = deepCloneMap(record)
	}
	return doc
}

func optionsFromDocument(doc map[string]any) InstanceOptions {
	out := make(InstanceOptions, len(doc))
	for key, value := range doc {
		number, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil || number < 0 {
			continue
		}
		record, ok := value.(map[string]any)
		if !ok {
			continue
		}
		out[number] = InstanceSettings(deepCloneMap(record))
	}
	return out
}

func normalizeKey(key string) string {
	return strings.TrimSpace(key)
}

func deepCloneMap(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	out := make(map[string]any, len(src))
	for key, value := range src {
		out[key] = deepCloneValue(value)
	}
	return out
}

func deepCloneValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return deepCloneMap(typed)
	case InstanceSettings:
		return InstanceSettings(deepCloneMap(typed))
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = deepCloneValue(item)
		}
		return out
	case []string:
		return append([]string(nil), typed...)
	default:
		return typed
	}
}

func mergeRecord(options InstanceOptions, number int, record InstanceSettings) InstanceOptions {
	next := options.Clone()
	if next == nil {
		next = InstanceOptions{}
	}
	copied := record.Clone()
	if copied == nil {
		copied = InstanceSettings{}
	}
	next[number] = copied
	return next
}
