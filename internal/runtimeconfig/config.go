package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrStorageProviderUnknown = errors.New("widgetclasses config: storage provider is invalid")
var ErrStorageDriverUnknown = errors.New("widgetclasses config: storage driver is invalid")
var ErrStorageDSNRequired = errors.New("widgetclasses config: storage dsn is required for the bun provider")

// ErrCacheRequiresBunStorage keeps cache wiring tied to the repository-backed store.
var ErrCacheRequiresBunStorage = errors.New("widgetclasses config: cache requires the bun storage provider")
var ErrCacheTTLInvalid = errors.New("widgetclasses config: cache ttl must be zero or positive")
var ErrRenderAttributeRequired = errors.New("widgetclasses config: render attribute is required")
var ErrRenderAttributeInvalid = errors.New("widgetclasses config: render attribute must not contain whitespace, quotes or '='")
var ErrAdminFieldKeyRequired = errors.New("widgetclasses config: admin field key is required")
var ErrLoggingProviderRequired = errors.New("widgetclasses config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("widgetclasses config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("widgetclasses config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("widgetclasses config: logging format is invalid")

// Config aggregates storage, render and admin settings for the widget classes module.
type Config struct {
	Enabled  bool
	Storage  StorageConfig
	Cache    CacheConfig
	Render   RenderConfig
	Admin    AdminConfig
	Features Features
	Logging  LoggingConfig
}

// StorageConfig selects where widget option collections live.
// Provider is "memory" or "bun"; Driver is "sqlite" or "postgres".
type StorageConfig struct {
	Provider string
	Driver   string
	DSN      string
}

// CacheConfig captures cache behaviour toggles for the bun store.
type CacheConfig struct {
	Enabled    bool
	DefaultTTL time.Duration
}

// RenderConfig controls how classes are merged into wrapper markup.
type RenderConfig struct {
	Attribute string
	Unique    bool
}

// AdminConfig controls the admin form field.
type AdminConfig struct {
	Permission string
	Label      string
	FieldKey   string
	InputClass string
}

// Features toggles optional behaviour.
type Features struct {
	Logger      bool
	SchemaGuard bool
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// DefaultConfig returns an enabled module with memory storage, unique merging
// into the class attribute and the edit_theme_options gate.
func DefaultConfig() Config {
	return Config{
		Enabled: true,
		Storage: StorageConfig{
			Provider: "memory",
			Driver:   "sqlite",
		},
		Cache: CacheConfig{
			DefaultTTL: time.Minute,
		},
		Render: RenderConfig{
			Attribute: "class",
			Unique:    true,
		},
		Admin: AdminConfig{
			Permission: "edit_theme_options",
			Label:      "Custom Classes",
			FieldKey:   "classes",
			InputClass: "widefat",
		},
		Features: Features{
			SchemaGuard: true,
		},
		Logging: LoggingConfig{
			Provider: "gologger",
			Level:    "info",
			Format:   "json",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	provider := normalize(cfg.Storage.Provider)
	switch provider {
	case "", "memory":
	case "bun":
		if !isSupportedDriver(normalize(cfg.Storage.Driver)) {
			return fmt.Errorf("%w: %s", ErrStorageDriverUnknown, cfg.Storage.Driver)
		}
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return ErrStorageDSNRequired
		}
	default:
		return fmt.Errorf("%w: %s", ErrStorageProviderUnknown, provider)
	}
	if cfg.Cache.Enabled && provider != "bun" {
		return ErrCacheRequiresBunStorage
	}
	if cfg.Cache.DefaultTTL < 0 {
		return ErrCacheTTLInvalid
	}

	attr := strings.TrimSpace(cfg.Render.Attribute)
	if attr == "" {
		return ErrRenderAttributeRequired
	}
	if strings.ContainsAny(attr, " \t\r\n\"'=<>") {
		return fmt.Errorf("%w: %q", ErrRenderAttributeInvalid, attr)
	}
	if strings.TrimSpace(cfg.Admin.FieldKey) == "" {
		return ErrAdminFieldKeyRequired
	}

	if cfg.Features.Logger {
		provider := normalize(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedLoggingProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedDriver(driver string) bool {
	switch driver {
	case "sqlite", "sqlite3", "postgres", "postgresql":
		return true
	default:
		return false
	}
}

func isSupportedLoggingProvider(provider string) bool {
	switch provider {
	case "gologger", "noop":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch normalize(level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch normalize(format) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
