package settings

import (
	"context"
	"sync"
)

// MemoryStore keeps option collections in-memory.
type MemoryStore struct {
	mu          sync.RWMutex
	options     map[string]InstanceOptions
	guard       *SchemaGuard
	broadcaster *changeBroadcaster
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithMemorySchemaGuard validates records on write.
func WithMemorySchemaGuard(guard *SchemaGuard) MemoryOption {
	return func(s *MemoryStore) {
		s.guard = guard
	}
}

// NewMemoryStore constructs an empty in-memory store.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		options:     make(map[string]InstanceOptions),
		broadcaster: newChangeBroadcaster(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ Store = (*MemoryStore)(nil)

func (s *MemoryStore) Get(_ context.Context, key string) (InstanceOptions, error) {
	key = normalizeKey(key)
	s.mu.RLock()
	defer s.mu.RUnlock()

	options, ok := s.options[key]
	if !ok {
		return nil, &NotFoundError{Resource: "widget_option", Key: key}
	}
	return options.Clone(), nil
}

func (s *MemoryStore) Save(_ context.Context, key string, options InstanceOptions) (InstanceOptions, error) {
	key = normalizeKey(key)
	if key == "" {
		return nil, ErrOptionNameRequired
	}
	if err := validateNumbers(options); err != nil {
		return nil, err
	}
	if err := s.guard.Validate(options); err != nil {
		return nil, err
	}
	stored := s.store(key, func(InstanceOptions) InstanceOptions { return options.Clone() })
	return stored.Clone(), nil
}

func (s *MemoryStore) SaveInstance(_ context.Context, key string, number int, record InstanceSettings) (InstanceSettings, error) {
	key = normalizeKey(key)
	if key == "" {
		return nil, ErrOptionNameRequired
	}
	if number < 0 {
		return nil, ErrInstanceNumberInvalid
	}
	if err := s.guard.ValidateRecord(number, record); err != nil {
		return nil, err
	}
	stored := s.store(key, func(current InstanceOptions) InstanceOptions {
		return mergeRecord(current, number, record)
	})
	return stored.Instance(number).Clone(), nil
}

// store applies update under the write lock and broadcasts the result.
func (s *MemoryStore) store(key string, update func(current InstanceOptions) InstanceOptions) InstanceOptions {
	s.mu.Lock()
	current, existed := s.options[key]
	next := update(current)
	if next == nil {
		next = InstanceOptions{}
	}
	s.options[key] = next
	s.mu.Unlock()

	changeType := ChangeUpdated
	if !existed {
		changeType = ChangeCreated
	}
	s.broadcaster.Broadcast(newChangeEvent(changeType, key, next))
	return next
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	key = normalizeKey(key)
	s.mu.Lock()
	if _, ok := s.options[key]; !ok {
		s.mu.Unlock()
		return &NotFoundError{Resource: "widget_option", Key: key}
	}
	delete(s.options, key)
	s.mu.Unlock()

	s.broadcaster.Broadcast(newChangeEvent(ChangeDeleted, key, nil))
	return nil
}

func (s *MemoryStore) Subscribe(ctx context.Context) (<-chan ChangeEvent, error) {
	return s.broadcaster.Subscribe(ctx)
}

func validateNumbers(options InstanceOptions) error {
	for number := range options {
		if number < 0 {
			return ErrInstanceNumberInvalid
		}
	}
	return nil
}
