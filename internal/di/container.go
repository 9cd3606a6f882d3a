package di

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-widget-classes/internal/admin"
	"github.com/goliatone/go-widget-classes/internal/classes"
	"github.com/goliatone/go-widget-classes/internal/commands"
	classescmd "github.com/goliatone/go-widget-classes/internal/commands/classes"
	"github.com/goliatone/go-widget-classes/internal/logging"
	"github.com/goliatone/go-widget-classes/internal/logging/gologger"
	"github.com/goliatone/go-widget-classes/internal/runtimeconfig"
	"github.com/goliatone/go-widget-classes/internal/settings"
	"github.com/goliatone/go-widget-classes/internal/widgets"
	"github.com/goliatone/go-widget-classes/pkg/activity"
	"github.com/goliatone/go-widget-classes/pkg/activity/usersink"
	"github.com/goliatone/go-widget-classes/pkg/interfaces"
)

const schemaTimeout = 10 * time.Second

// ErrModuleDisabled is returned when the configuration turns the module off.
var ErrModuleDisabled = errors.New("widgetclasses: module disabled")

// Container wires config into stores, loggers, the renderer and admin glue.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	auth           interfaces.AuthProvider

	bunDB   *bun.DB
	ownedDB *sql.DB

	cacheTTL      time.Duration
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	store        settings.Store
	registry     *widgets.Registry
	contributors []classes.Contributor
	labelFilters []admin.LabelFilter
	fieldActions []admin.FieldAction
	activity     activity.Hooks

	renderer      *widgets.Renderer
	adminSvc      *admin.Service
	updateHandler *classescmd.UpdateWidgetClassesHandler
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the configured logger provider.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithAuth sets the provider used for permission checks.
func WithAuth(auth interfaces.AuthProvider) Option {
	return func(c *Container) {
		c.auth = auth
	}
}

// WithBunDB supplies an existing database. Supplying one selects the bun
// store regardless of the configured provider.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the default cache service.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithStore replaces the configured settings store.
func WithStore(store settings.Store) Option {
	return func(c *Container) {
		c.store = store
	}
}

// WithRegistry shares a widget registry owned by the host.
func WithRegistry(registry *widgets.Registry) Option {
	return func(c *Container) {
		if registry != nil {
			c.registry = registry
		}
	}
}

// WithClassContributor appends a token contributor to the render chain.
func WithClassContributor(contributor classes.Contributor) Option {
	return func(c *Container) {
		if contributor != nil {
			c.contributors = append(c.contributors, contributor)
		}
	}
}

// WithLabelFilter appends a label filter to the admin field.
func WithLabelFilter(filter admin.LabelFilter) Option {
	return func(c *Container) {
		if filter != nil {
			c.labelFilters = append(c.labelFilters, filter)
		}
	}
}

// WithFormFieldAction appends an extra-fields action to the admin field.
func WithFormFieldAction(action admin.FieldAction) Option {
	return func(c *Container) {
		if action != nil {
			c.fieldActions = append(c.fieldActions, action)
		}
	}
}

// WithActivityHook appends a hook notified after classes are saved.
func WithActivityHook(hook activity.Hook) Option {
	return func(c *Container) {
		if hook != nil {
			c.activity = append(c.activity, hook)
		}
	}
}

// WithActivitySink records saves into a go-users activity sink.
func WithActivitySink(sink interfaces.ActivitySink) Option {
	return func(c *Container) {
		if sink != nil {
			c.activity = append(c.activity, usersink.Hook{Sink: sink})
		}
	}
}

// NewContainer validates cfg and builds every module dependency.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !cfg.Enabled {
		return nil, ErrModuleDisabled
	}

	c := &Container{
		Config:   cfg,
		cacheTTL: cfg.Cache.DefaultTTL,
		registry: widgets.NewRegistry(),
	}
	if c.cacheTTL <= 0 {
		c.cacheTTL = time.Minute
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	if err := c.configureStore(); err != nil {
		_ = c.Close()
		return nil, err
	}
	c.configureServices()
	return c, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil || !c.Config.Features.Logger {
		return nil
	}
	switch strings.ToLower(strings.TrimSpace(c.Config.Logging.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     c.Config.Logging.Level,
			Format:    c.Config.Logging.Format,
			AddSource: c.Config.Logging.AddSource,
			Focus:     c.Config.Logging.Focus,
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	case "noop":
	}
	return nil
}

func (c *Container) configureStore() error {
	if c.store != nil {
		return nil
	}

	var guard *settings.SchemaGuard
	if c.Config.Features.SchemaGuard {
		guard = settings.NewSchemaGuard()
	}

	if strings.ToLower(strings.TrimSpace(c.Config.Storage.Provider)) != "bun" && c.bunDB == nil {
		c.store = settings.NewMemoryStore(settings.WithMemorySchemaGuard(guard))
		return nil
	}

	if c.bunDB == nil {
		db, sqlDB, err := openBunDB(c.Config.Storage)
		if err != nil {
			return err
		}
		c.bunDB = db
		c.ownedDB = sqlDB
	}

	ctx, cancel := context.WithTimeout(context.Background(), schemaTimeout)
	defer cancel()
	if err := settings.EnsureSchema(ctx, c.bunDB); err != nil {
		return fmt.Errorf("widgetclasses: ensure schema: %w", err)
	}

	c.configureCacheDefaults()
	c.store = settings.NewBunStoreWithCache(c.bunDB, c.cacheService, c.keySerializer, settings.WithBunSchemaGuard(guard))
	return nil
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled {
		return
	}

	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.cacheTTL > 0 {
			cfg.TTL = c.cacheTTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err == nil {
			c.cacheService = service
		} else {
			logging.SettingsLogger(c.loggerProvider).Warn("cache service unavailable", "error", err)
		}
	}

	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureServices() {
	renderCfg := c.Config.Render
	adminCfg := c.Config.Admin

	c.renderer = widgets.NewRenderer(c.registry, c.store,
		widgets.WithLogger(logging.RenderLogger(c.loggerProvider)),
		widgets.WithAttribute(renderCfg.Attribute),
		widgets.WithUniqueMerge(renderCfg.Unique),
		widgets.WithSettingsKey(adminCfg.FieldKey),
		widgets.WithContributors(c.contributors...),
	)

	adminLogger := logging.AdminLogger(c.loggerProvider)
	fieldOpts := []admin.FieldOption{
		admin.WithAuth(c.auth),
		admin.WithPermission(adminCfg.Permission),
		admin.WithLabel(adminCfg.Label),
		admin.WithFieldKey(adminCfg.FieldKey),
		admin.WithInputClass(adminCfg.InputClass),
		admin.WithFieldLogger(adminLogger),
	}
	for _, filter := range c.labelFilters {
		fieldOpts = append(fieldOpts, admin.WithLabelFilter(filter))
	}
	for _, action := range c.fieldActions {
		fieldOpts = append(fieldOpts, admin.WithFieldAction(action))
	}

	c.adminSvc = admin.NewService(c.store, c.registry,
		admin.WithServiceAuth(c.auth),
		admin.WithSavePermission(adminCfg.Permission),
		admin.WithFormField(admin.NewFormField(fieldOpts...)),
		admin.WithServiceLogger(adminLogger),
		admin.WithActivity(activity.NewEmitter(c.activity)),
	)

	c.updateHandler = classescmd.NewUpdateWidgetClassesHandler(c.adminSvc, commands.CommandLogger(c.loggerProvider, "classes"))
}

func openBunDB(cfg runtimeconfig.StorageConfig) (*bun.DB, *sql.DB, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", "sqlite", "sqlite3":
		sqlDB, err := sql.Open("sqlite3", dsn)
		if err != nil {
			return nil, nil, fmt.Errorf("widgetclasses: open sqlite: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
		return bun.NewDB(sqlDB, sqlitedialect.New()), sqlDB, nil
	case "postgres", "postgresql":
		sqlDB, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, nil, fmt.Errorf("widgetclasses: open postgres: %w", err)
		}
		return bun.NewDB(sqlDB, pgdialect.New()), sqlDB, nil
	default:
		return nil, nil, fmt.Errorf("%w: %s", runtimeconfig.ErrStorageDriverUnknown, cfg.Driver)
	}
}

// Close releases the database opened by the container. Databases supplied
// through WithBunDB are left open.
func (c *Container) Close() error {
	if c == nil || c.ownedDB == nil {
		return nil
	}
	err := c.ownedDB.Close()
	c.ownedDB = nil
	return err
}

func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

func (c *Container) Store() settings.Store {
	return c.store
}

func (c *Container) Registry() *widgets.Registry {
	return c.registry
}

func (c *Container) Renderer() *widgets.Renderer {
	return c.renderer
}

func (c *Container) AdminService() *admin.Service {
	return c.adminSvc
}

func (c *Container) UpdateClassesHandler() *classescmd.UpdateWidgetClassesHandler {
	return c.updateHandler
}

// BunDB returns the database backing the bun store, nil for memory storage.
func (c *Container) BunDB() *bun.DB {
	return c.bunDB
}
