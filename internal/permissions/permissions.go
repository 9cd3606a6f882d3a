package permissions

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-widget-classes/pkg/interfaces"
)

// EditThemeOptions gates the custom classes admin field and saves.
const EditThemeOptions = "edit_theme_options"

var ErrPermissionDenied = errors.New("permissions: denied")

type Error struct {
	Permission string
}

func (e Error) Error() string {
	if strings.TrimSpace(e.Permission) == "" {
		return "permission denied"
	}
	return "permission denied: " + e.Permission
}

func (e Error) Unwrap() error {
	return ErrPermissionDenied
}

type Checker interface {
	Allowed(permission string) bool
}

type CheckerFunc func(permission string) bool

func (fn CheckerFunc) Allowed(permission string) bool {
	return fn(permission)
}

// Set is a static list of granted capabilities. "*" grants everything.
type Set map[string]struct{}

func NewSet(perms ...string) Set {
	set := Set{}
	for _, perm := range perms {
		normalized := normalizePermission(perm)
		if normalized == "" {
			continue
		}
		set[normalized] = struct{}{}
	}
	return set
}

func (s Set) Allowed(permission string) bool {
	if len(s) == 0 {
		return false
	}
	normalized := normalizePermission(permission)
	if normalized == "" {
		return false
	}
	if _, ok := s[normalized]; ok {
		return true
	}
	_, ok := s["*"]
	return ok
}

type contextKey string

const checkerKey contextKey = "widgetclasses.permissions.checker"

// WithChecker stores a permission checker on the context.
func WithChecker(ctx context.Context, checker Checker) context.Context {
	if ctx == nil || checker == nil {
		return ctx
	}
	return context.WithValue(ctx, checkerKey, checker)
}

// WithPermissions stores a static permission set on the context.
func WithPermissions(ctx context.Context, perms ...string) context.Context {
	if ctx == nil || len(perms) == 0 {
		return ctx
	}
	return WithChecker(ctx, NewSet(perms...))
}

// CheckerFromContext returns the configured permission checker if available.
func CheckerFromContext(ctx context.Context) Checker {
	if ctx == nil {
		return nil
	}
	checker, _ := ctx.Value(checkerKey).(Checker)
	return checker
}

// Allowed reports whether the provided permission is allowed for the context.
func Allowed(ctx context.Context, permission string) bool {
	return Require(ctx, permission) == nil
}

// Require enforces a permission requirement when a checker is available on the context.
func Require(ctx context.Context, permission string) error {
	normalized := normalizePermission(permission)
	if normalized == "" {
		return nil
	}
	checker := CheckerFromContext(ctx)
	if checker == nil {
		return nil
	}
	if checker.Allowed(normalized) {
		return nil
	}
	return Error{Permission: normalized}
}

// Check consults auth first and falls back to the context checker. With
// neither configured the permission is granted.
func Check(ctx context.Context, auth interfaces.AuthProvider, permission string) error {
	normalized := normalizePermission(permission)
	if normalized == "" {
		return nil
	}
	if auth == nil {
		return Require(ctx, normalized)
	}
	allowed, err := auth.HasPermission(ctx, normalized)
	if err != nil {
		return fmt.Errorf("permissions: check %s: %w", normalized, err)
	}
	if !allowed {
		return Error{Permission: normalized}
	}
	return nil
}

func normalizePermission(permission string) string {
	return strings.ToLower(strings.TrimSpace(permission))
}

// IsDenied reports whether err is a permission denial.
func IsDenied(err error) bool {
	return errors.Is(err, ErrPermissionDenied)
}
