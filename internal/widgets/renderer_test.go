package widgets

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/goliatone/go-widget-classes/internal/classes"
	"github.com/goliatone/go-widget-classes/internal/settings"
)

func newTestRenderer(t *testing.T, opts ...RendererOption) (*Renderer, *settings.MemoryStore) {
	t.Helper()

	registry := NewRegistry()
	if _, err := registry.Register(Descriptor{ID: "text-3", Name: "Text"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := registry.Register(Descriptor{ID: "search-2", Name: "Search"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	store := settings.NewMemoryStore()
	return NewRenderer(registry, store, opts...), store
}

func saveClasses(t *testing.T, store settings.Store, key string, number int, value string) {
	t.Helper()
	if _, err := store.SaveInstance(context.Background(), key, number, settings.InstanceSettings{settings.ClassesKey: value}); err != nil {
		t.Fatalf("SaveInstance() error = %v", err)
	}
}

func TestRendererApplyMergesStoredClasses(t *testing.T) {
	t.Parallel()

	renderer, store := newTestRenderer(t)
	saveClasses(t, store, "widget_text", 3, "  hero  hero wide ")

	got := renderer.Apply(context.Background(), SidebarParams{
		WidgetID:     "text-3",
		BeforeWidget: `<section id="text-3" class="widget widget_text">`,
		AfterWidget:  "</section>",
	})
	want := `<section id="text-3" class="widget widget_text hero wide">`
	if got.BeforeWidget != want {
		t.Fatalf("BeforeWidget = %q, want %q", got.BeforeWidget, want)
	}
	if got.AfterWidget != "</section>" {
		t.Fatalf("AfterWidget changed: %q", got.AfterWidget)
	}
}

func TestRendererApplyEmptyClassesLeavesMarkup(t *testing.T) {
	t.Parallel()

	renderer, store := newTestRenderer(t)
	saveClasses(t, store, "widget_text", 3, "")

	params := SidebarParams{WidgetID: "text-3", BeforeWidget: `<div class="widget">`}
	if got := renderer.Apply(context.Background(), params); got != params {
		t.Fatalf("expected params unchanged, got %+v", got)
	}
}

func TestRendererApplyNoOps(t *testing.T) {
	t.Parallel()

	renderer, store := newTestRenderer(t)
	saveClasses(t, store, "widget_text", 3, "hero")

	cases := []struct {
		name   string
		ctx    context.Context
		params SidebarParams
	}{
		{"empty widget id", context.Background(), SidebarParams{BeforeWidget: `<div class="widget">`}},
		{"unknown widget", context.Background(), SidebarParams{WidgetID: "calendar-1", BeforeWidget: `<div class="widget">`}},
		{"missing option collection", context.Background(), SidebarParams{WidgetID: "search-2", BeforeWidget: `<div class="widget">`}},
		{"admin request", ContextWithAdmin(context.Background()), SidebarParams{WidgetID: "text-3", BeforeWidget: `<div class="widget">`}},
		{"no class attribute", context.Background(), SidebarParams{WidgetID: "text-3", BeforeWidget: `<div id="x">`}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := renderer.Apply(tc.ctx, tc.params); got != tc.params {
				t.Fatalf("expected params unchanged, got %+v", got)
			}
		})
	}
}

func TestRendererApplyMissingInstance(t *testing.T) {
	t.Parallel()

	renderer, store := newTestRenderer(t)
	saveClasses(t, store, "widget_text", 7, "other")

	params := SidebarParams{WidgetID: "text-3", BeforeWidget: `<div class="widget">`}
	if got := renderer.Apply(context.Background(), params); got != params {
		t.Fatalf("expected params unchanged, got %+v", got)
	}
}

func TestRendererContributorsReceiveContext(t *testing.T) {
	t.Parallel()

	var seen classes.RenderContext
	contributor := func(tokens []string, rc classes.RenderContext) []string {
		seen = rc
		return append(tokens, "sidebar-"+rc.WidgetID)
	}
	renderer, store := newTestRenderer(t, WithContributors(contributor))
	saveClasses(t, store, "widget_text", 3, "hero")

	got := renderer.Apply(context.Background(), SidebarParams{WidgetID: "text-3", BeforeWidget: `<li class='widget'>`})
	if got.BeforeWidget != `<li class='widget hero sidebar-text-3'>` {
		t.Fatalf("unexpected markup %q", got.BeforeWidget)
	}
	if seen.Number != 3 || seen.Settings[settings.ClassesKey] != "hero" || len(seen.Options) != 1 {
		t.Fatalf("unexpected render context %+v", seen)
	}
	desc, ok := seen.Descriptor.(Descriptor)
	if !ok || desc.OptionName != "widget_text" {
		t.Fatalf("expected descriptor in context, got %#v", seen.Descriptor)
	}
}

func TestRendererContributorCanAddClassesWithoutStoredValue(t *testing.T) {
	t.Parallel()

	renderer, _ := newTestRenderer(t, WithContributors(func(tokens []string, _ classes.RenderContext) []string {
		return append(tokens, "injected")
	}))

	got := renderer.Apply(context.Background(), SidebarParams{WidgetID: "search-2", BeforeWidget: `<div class="widget">`})
	if got.BeforeWidget != `<div class="widget injected">` {
		t.Fatalf("unexpected markup %q", got.BeforeWidget)
	}
}

func TestRendererAppendMode(t *testing.T) {
	t.Parallel()

	renderer, store := newTestRenderer(t, WithUniqueMerge(false))
	saveClasses(t, store, "widget_text", 3, "widget")

	got := renderer.Apply(context.Background(), SidebarParams{WidgetID: "text-3", BeforeWidget: `<div class="widget">`})
	if got.BeforeWidget != `<div class="widget widget">` {
		t.Fatalf("append mode should not dedup, got %q", got.BeforeWidget)
	}
}

func TestRendererCustomAttribute(t *testing.T) {
	t.Parallel()

	renderer, store := newTestRenderer(t, WithAttribute("data-classes"))
	saveClasses(t, store, "widget_text", 3, "hero")

	got := renderer.Apply(context.Background(), SidebarParams{WidgetID: "text-3", BeforeWidget: `<div class="widget" data-classes="a">`})
	if got.BeforeWidget != `<div class="widget" data-classes="a hero">` {
		t.Fatalf("unexpected markup %q", got.BeforeWidget)
	}
}

func TestRendererStoreFailureDegrades(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	if _, err := registry.Register(Descriptor{ID: "text-3"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	renderer := NewRenderer(registry, failingStore{err: errors.New("boom")})

	params := SidebarParams{WidgetID: "text-3", BeforeWidget: `<div class="widget">`}
	if got := renderer.Apply(context.Background(), params); got != params {
		t.Fatalf("expected params unchanged on store failure, got %+v", got)
	}
	if _, err := renderer.Classes(context.Background(), "text-3"); err == nil {
		t.Fatalf("expected Classes() to surface store error")
	}
}

func TestRendererClasses(t *testing.T) {
	t.Parallel()

	renderer, store := newTestRenderer(t)
	saveClasses(t, store, "widget_text", 3, `a "b" a`)

	got, err := renderer.Classes(context.Background(), "text-3")
	if err != nil {
		t.Fatalf("Classes() error = %v", err)
	}
	if got != "a &#34;b&#34;" {
		t.Fatalf("Classes() = %q", got)
	}

	if _, err := renderer.Classes(context.Background(), "unknown-1"); !errors.Is(err, ErrWidgetNotRegistered) {
		t.Fatalf("expected ErrWidgetNotRegistered, got %v", err)
	}
}

func TestNilRendererClasses(t *testing.T) {
	t.Parallel()

	var renderer *Renderer
	got, err := renderer.Classes(context.Background(), "text-3")
	if !errors.Is(err, ErrWidgetNotRegistered) {
		t.Fatalf("expected ErrWidgetNotRegistered, got %v", err)
	}
	if got != "" {
		t.Fatalf("expected empty classes, got %q", got)
	}
}

func TestRendererContributorsSurviveOptionOrder(t *testing.T) {
	t.Parallel()

	base := func(tokens []string, _ classes.RenderContext) []string {
		return append(tokens, "base")
	}
	extra := func(tokens []string, _ classes.RenderContext) []string {
		return append(tokens, "extra")
	}

	orders := map[string]func(*classes.Normalizer) []RendererOption{
		"normalizer first": func(n *classes.Normalizer) []RendererOption {
			return []RendererOption{WithNormalizer(n), WithContributors(extra)}
		},
		"contributors first": func(n *classes.Normalizer) []RendererOption {
			return []RendererOption{WithContributors(extra), WithNormalizer(n)}
		},
	}
	for name, opts := range orders {
		t.Run(name, func(t *testing.T) {
			shared := classes.NewNormalizer(base)
			renderer, store := newTestRenderer(t, opts(shared)...)
			saveClasses(t, store, "widget_text", 3, "hero")

			got, err := renderer.Classes(context.Background(), "text-3")
			if err != nil {
				t.Fatalf("Classes() error = %v", err)
			}
			if got != "hero base extra" {
				t.Fatalf("Classes() = %q", got)
			}
			if n := len(shared.Contributors()); n != 1 {
				t.Fatalf("expected shared normalizer to keep 1 contributor, got %d", n)
			}
		})
	}
}

func TestRendererSharedNormalizerNotMutated(t *testing.T) {
	t.Parallel()

	shared := classes.NewNormalizer()
	extra := func(tokens []string, _ classes.RenderContext) []string {
		return append(tokens, "extra")
	}
	first, store := newTestRenderer(t, WithNormalizer(shared), WithContributors(extra))
	second := NewRenderer(first.registry, store, WithNormalizer(shared))
	saveClasses(t, store, "widget_text", 3, "hero")

	if got, _ := first.Classes(context.Background(), "text-3"); got != "hero extra" {
		t.Fatalf("first renderer classes = %q", got)
	}
	if got, _ := second.Classes(context.Background(), "text-3"); got != "hero" {
		t.Fatalf("second renderer picked up foreign contributor: %q", got)
	}
}

func TestRendererApplyAll(t *testing.T) {
	t.Parallel()

	renderer, store := newTestRenderer(t)
	saveClasses(t, store, "widget_text", 3, "hero")
	saveClasses(t, store, "widget_search", 2, "compact")

	input := []SidebarParams{
		{WidgetID: "text-3", BeforeWidget: `<div class="widget">`},
		{WidgetID: "search-2", BeforeWidget: `<div class='widget'>`},
	}
	got := renderer.ApplyAll(context.Background(), input)
	want := []string{`<div class="widget hero">`, `<div class='widget compact'>`}
	before := make([]string, len(got))
	for i, p := range got {
		before[i] = p.BeforeWidget
	}
	if !slices.Equal(before, want) {
		t.Fatalf("ApplyAll() = %v, want %v", before, want)
	}
	if input[0].BeforeWidget != `<div class="widget">` {
		t.Fatalf("ApplyAll() mutated input")
	}
}

type failingStore struct {
	settings.Store
	err error
}

func (s failingStore) Get(context.Context, string) (settings.InstanceOptions, error) {
	return nil, s.err
}
