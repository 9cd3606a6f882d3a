package markup

import (
	"strings"
	"testing"
)

func TestMergeUniqueScenarios(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		fragment string
		tokens   string
		want     string
	}{
		{
			name:     "single quoted attribute",
			fragment: `<div class='widget'>`,
			tokens:   "foo bar",
			want:     `<div class='widget foo bar'>`,
		},
		{
			name:     "skips existing tokens",
			fragment: `<div class="widget foo">`,
			tokens:   "foo baz",
			want:     `<div class="widget foo baz">`,
		},
		{
			name:     "missing attribute is a no-op",
			fragment: `<div id="x">`,
			tokens:   "foo",
			want:     `<div id="x">`,
		},
		{
			name:     "empty attribute value",
			fragment: `<li class="">`,
			tokens:   "foo",
			want:     `<li class="foo">`,
		},
		{
			name:     "collapses existing duplicates and blanks",
			fragment: `<aside class="a  a b">`,
			tokens:   "c",
			want:     `<aside class="a b c">`,
		},
		{
			name:     "trims new tokens",
			fragment: `<div class="w">`,
			tokens:   "  x  y ",
			want:     `<div class="w x y">`,
		},
		{
			name:     "case-insensitive attribute name",
			fragment: `<DIV CLASS="widget">`,
			tokens:   "foo",
			want:     `<DIV CLASS="widget foo">`,
		},
		{
			name:     "attribute at the start of the fragment",
			fragment: `class="a" data-x="1"`,
			tokens:   "b",
			want:     `class="a b" data-x="1"`,
		},
		{
			name:     "unterminated value is left untouched",
			fragment: `<div class="widget`,
			tokens:   "foo",
			want:     `<div class="widget`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := MergeUnique(tc.fragment, "class", tc.tokens); got != tc.want {
				t.Fatalf("MergeUnique(%q, %q) = %q, want %q", tc.fragment, tc.tokens, got, tc.want)
			}
		})
	}
}

func TestMergeUniquePrefersDoubleQuotes(t *testing.T) {
	t.Parallel()

	fragment := `<div class='outer'><span class="inner">`
	got := MergeUnique(fragment, "class", "foo")
	want := `<div class='outer'><span class="inner foo">`
	if got != want {
		t.Fatalf("expected double quoted attribute to win, got %q", got)
	}
}

func TestMergeUniqueIsIdempotent(t *testing.T) {
	t.Parallel()

	fragments := []string{
		`<section id="text-2" class="widget widget_text">`,
		`<div class='a b'>`,
		`<div class="">`,
		`<div id="none">`,
	}
	for _, fragment := range fragments {
		once := MergeUnique(fragment, "class", "b c d")
		twice := MergeUnique(once, "class", "b c d")
		if once != twice {
			t.Fatalf("expected idempotent merge for %q: %q != %q", fragment, once, twice)
		}
	}
}

func TestMergeUniquePreservesBoundaries(t *testing.T) {
	t.Parallel()

	fragment := "<section id=\"text-3\"\n\tclass='widget widget_text' data-role=\"x\">\n"
	loc, ok := Locate(fragment, "class")
	if !ok {
		t.Fatalf("expected class attribute to be located")
	}
	if loc.Quote != '\'' {
		t.Fatalf("expected single quote delimiter, got %q", loc.Quote)
	}
	end := loc.ValueStart + strings.IndexByte(fragment[loc.ValueStart:], loc.Quote)

	merged := MergeUnique(fragment, "class", "highlight")
	if !strings.HasPrefix(merged, fragment[:loc.ValueStart]) {
		t.Fatalf("prefix changed: %q", merged)
	}
	if !strings.HasSuffix(merged, fragment[end:]) {
		t.Fatalf("suffix changed: %q", merged)
	}
	if strings.Contains(merged, `class="`) {
		t.Fatalf("quote style changed: %q", merged)
	}
}

func TestAppendTokens(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		fragment string
		tokens   string
		want     string
	}{
		{
			name:     "prepends to double quoted value",
			fragment: `<div class="widget">`,
			tokens:   "foo",
			want:     `<div class="foo widget">`,
		},
		{
			name:     "prepends to single quoted value",
			fragment: `<div class='widget'>`,
			tokens:   "foo bar",
			want:     `<div class='foo bar widget'>`,
		},
		{
			name:     "does not deduplicate",
			fragment: `<div class="foo">`,
			tokens:   "foo",
			want:     `<div class="foo foo">`,
		},
		{
			name:     "only first occurrence",
			fragment: `<div class="a"><p class="b">`,
			tokens:   "x",
			want:     `<div class="x a"><p class="b">`,
		},
		{
			name:     "missing attribute",
			fragment: `<div id="x">`,
			tokens:   "foo",
			want:     `<div id="x">`,
		},
		{
			name:     "blank tokens",
			fragment: `<div class="a">`,
			tokens:   "   ",
			want:     `<div class="a">`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := AppendTokens(tc.fragment, "class", tc.tokens); got != tc.want {
				t.Fatalf("AppendTokens(%q, %q) = %q, want %q", tc.fragment, tc.tokens, got, tc.want)
			}
		})
	}
}

func TestMergeAttributeDispatchesOnMode(t *testing.T) {
	t.Parallel()

	fragment := `<div class="foo">`
	if got := MergeAttribute(fragment, "class", "foo", true); got != fragment {
		t.Fatalf("unique mode should not duplicate tokens, got %q", got)
	}
	if got := MergeAttribute(fragment, "class", "foo", false); got != `<div class="foo foo">` {
		t.Fatalf("append mode should prepend tokens, got %q", got)
	}
}

func TestLocateMissingInput(t *testing.T) {
	t.Parallel()

	if _, ok := Locate(`<div class="a">`, ""); ok {
		t.Fatalf("expected empty attribute name to be ignored")
	}
	if _, ok := Locate("", "class"); ok {
		t.Fatalf("expected empty fragment to be ignored")
	}
	if _, ok := Locate(`<div class=a>`, "class"); ok {
		t.Fatalf("expected unquoted attribute to be ignored")
	}
}
