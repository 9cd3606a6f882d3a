package permissions

import (
	"context"
	"errors"
	"testing"
)

func TestRequireWithoutCheckerAllows(t *testing.T) {
	if err := Require(context.Background(), EditThemeOptions); err != nil {
		t.Fatalf("expected no checker to allow, got %v", err)
	}
}

func TestRequireWithSet(t *testing.T) {
	ctx := WithPermissions(context.Background(), " Edit_Theme_Options ")
	if err := Require(ctx, EditThemeOptions); err != nil {
		t.Fatalf("expected permission to be granted, got %v", err)
	}

	err := Require(ctx, "manage_options")
	if !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
	var permErr Error
	if !errors.As(err, &permErr) || permErr.Permission != "manage_options" {
		t.Fatalf("expected permission error for manage_options, got %#v", err)
	}
}

func TestSetWildcard(t *testing.T) {
	set := NewSet("*")
	if !set.Allowed(EditThemeOptions) {
		t.Fatalf("expected wildcard to grant %s", EditThemeOptions)
	}
	if NewSet().Allowed(EditThemeOptions) {
		t.Fatalf("expected empty set to deny")
	}
}

func TestCheckUsesAuthProvider(t *testing.T) {
	ctx := WithPermissions(context.Background(), EditThemeOptions)

	if err := Check(ctx, stubAuth{allowed: false}, EditThemeOptions); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected auth provider denial to win, got %v", err)
	}
	if err := Check(context.Background(), stubAuth{allowed: true}, EditThemeOptions); err != nil {
		t.Fatalf("expected auth provider grant, got %v", err)
	}

	boom := errors.New("session expired")
	if err := Check(ctx, stubAuth{err: boom}, EditThemeOptions); !errors.Is(err, boom) {
		t.Fatalf("expected provider error to be wrapped, got %v", err)
	}
}

func TestCheckFallsBackToContext(t *testing.T) {
	ctx := WithChecker(context.Background(), CheckerFunc(func(string) bool { return false }))
	if Allowed(ctx, EditThemeOptions) {
		t.Fatalf("expected context checker to deny")
	}
	if err := Check(ctx, nil, EditThemeOptions); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
}

type stubAuth struct {
	allowed bool
	err     error
}

func (s stubAuth) CurrentUserID(context.Context) (string, error) {
	return "admin", nil
}

func (s stubAuth) HasPermission(context.Context, string) (bool, error) {
	return s.allowed, s.err
}
