package settings

import (
	"context"
	"fmt"
	"sync"
	"time"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	cache "github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-widget-classes/internal/identity"
)

const optionNamespace = "widget_option"

type optionModel struct {
	bun.BaseModel `bun:"table:widget_options,alias:wo"`

	ID        uuid.UUID      `bun:",pk,type:uuid" json:"id"`
	Name      string         `bun:"name,notnull,unique" json:"name"`
	Value     map[string]any `bun:"value,type:jsonb,notnull" json:"value"`
	CreatedAt time.Time      `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time      `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// newOptionRepository creates the go-repository-bun repository backing BunStore.
func newOptionRepository(db *bun.DB) repository.Repository[*optionModel] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*optionModel]{
		NewRecord:          func() *optionModel { return &optionModel{} },
		GetID:              func(rec *optionModel) uuid.UUID { return rec.ID },
		SetID:              func(rec *optionModel, id uuid.UUID) { rec.ID = id },
		GetIdentifier:      func() string { return "name" },
		GetIdentifierValue: func(rec *optionModel) string { return rec.Name },
	})
}

// EnsureSchema creates the widget_options table when missing.
func EnsureSchema(ctx context.Context, db *bun.DB) error {
	if db == nil {
		return fmt.Errorf("settings: bun store requires a database")
	}
	_, err := db.NewCreateTable().Model((*optionModel)(nil)).IfNotExists().Exec(ctx)
	return err
}

// BunStore persists option collections using Bun with optional caching.
// Writes are serialised so SaveInstance's read-merge-write of a collection
// never interleaves with another write.
type BunStore struct {
	mu           sync.Mutex
	repo         repository.Repository[*optionModel]
	cacheService cache.CacheService
	cachePrefix  string
	guard        *SchemaGuard
	now          func() time.Time
	broadcaster  *changeBroadcaster
}

// BunOption configures a BunStore.
type BunOption func(*BunStore)

// WithBunSchemaGuard validates records on write.
func WithBunSchemaGuard(guard *SchemaGuard) BunOption {
	return func(s *BunStore) {
		s.guard = guard
	}
}

// WithBunClock overrides the timestamp source.
func WithBunClock(clock func() time.Time) BunOption {
	return func(s *BunStore) {
		if clock != nil {
			s.now = clock
		}
	}
}

// NewBunStore creates a store without caching.
func NewBunStore(db *bun.DB, opts ...BunOption) *BunStore {
	return NewBunStoreWithCache(db, nil, nil, opts...)
}

// NewBunStoreWithCache creates a store whose reads go through go-repository-cache.
func NewBunStoreWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer, opts ...BunOption) *BunStore {
	base := newOptionRepository(db)
	var svc cache.CacheService
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
		svc = cacheService
	}
	prefix := ""
	if svc != nil {
		prefix = optionNamespace + cache.KeySeparator
	}
	s := &BunStore{
		repo:         base,
		cacheService: svc,
		cachePrefix:  prefix,
		now:          time.Now,
		broadcaster:  newChangeBroadcaster(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ Store = (*BunStore)(nil)

func (s *BunStore) Get(ctx context.Context, key string) (InstanceOptions, error) {
	key = normalizeKey(key)
	record, err := s.repo.GetByIdentifier(ctx, key)
	if err != nil {
		return nil, mapRepositoryError(err, key)
	}
	return optionsFromDocument(record.Value), nil
}

func (s *BunStore) Save(ctx context.Context, key string, options InstanceOptions) (InstanceOptions, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, key, options)
}

func (s *BunStore) save(ctx context.Context, key string, options InstanceOptions) (InstanceOptions, error) {
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

	now := s.now().UTC()
	model := &optionModel{
		ID:        identity.OptionUUID(key),
		Name:      key,
		Value:     optionsToDocument(options),
		UpdatedAt: now,
	}

	changeType := ChangeUpdated
	existing, err := s.repo.GetByIdentifier(ctx, key)
	switch {
	case err == nil:
		model.ID = existing.ID
		model.CreatedAt = existing.CreatedAt
		if _, err := s.repo.Update(ctx, model); err != nil {
			return nil, fmt.Errorf("widget_option repository error: %w", err)
		}
	case IsNotFound(mapRepositoryError(err, key)):
		changeType = ChangeCreated
		model.CreatedAt = now
		if _, err := s.repo.Create(ctx, model); err != nil {
			return nil, fmt.Errorf("widget_option repository error: %w", err)
		}
	default:
		return nil, mapRepositoryError(err, key)
	}

	if err := s.InvalidateCache(ctx); err != nil {
		return nil, err
	}

	stored := optionsFromDocument(model.Value)
	s.broadcaster.Broadcast(newChangeEvent(changeType, key, stored))
	return stored, nil
}

func (s *BunStore) SaveInstance(ctx context.Context, key string, number int, record InstanceSettings) (InstanceSettings, error) {
	key = normalizeKey(key)
	if key == "" {
		return nil, ErrOptionNameRequired
	}
	if number < 0 {
		return nil, ErrInstanceNumberInvalid
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	current, err := s.Get(ctx, key)
	if err != nil && !IsNotFound(err) {
		return nil, err
	}
	stored, err := s.save(ctx, key, mergeRecord(current, number, record))
	if err != nil {
		return nil, err
	}
	return stored.Instance(number), nil
}

func (s *BunStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key = normalizeKey(key)
	existing, err := s.repo.GetByIdentifier(ctx, key)
	if err != nil {
		return mapRepositoryError(err, key)
	}
	if err := s.repo.Delete(ctx, &optionModel{ID: existing.ID}); err != nil {
		return fmt.Errorf("widget_option repository error: %w", err)
	}
	if err := s.InvalidateCache(ctx); err != nil {
		return err
	}
	s.broadcaster.Broadcast(newChangeEvent(ChangeDeleted, key, nil))
	return nil
}

func (s *BunStore) Subscribe(ctx context.Context) (<-chan ChangeEvent, error) {
	return s.broadcaster.Subscribe(ctx)
}

// InvalidateCache drops cached option reads.
func (s *BunStore) InvalidateCache(ctx context.Context) error {
	if s.cacheService == nil || s.cachePrefix == "" {
		return nil
	}
	return s.cacheService.DeleteByPrefix(ctx, s.cachePrefix)
}

func mapRepositoryError(err error, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Resource: "widget_option", Key: key}
	}
	return fmt.Errorf("widget_option repository error: %w", err)
}
