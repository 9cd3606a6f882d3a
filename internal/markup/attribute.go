package markup

import (
	"slices"
	"strings"

	"github.com/goliatone/go-widget-classes/internal/classes"
)

// Location identifies an attribute occurrence inside a markup fragment.
type Location struct {
	// Start is the byte offset of the attribute name.
	Start int
	// ValueStart is the byte offset just after the opening quote.
	ValueStart int
	// Quote is the delimiter used by the attribute value.
	Quote byte
}

// Locate finds attr followed by `="` or, failing that, `='`. Matching on the
// attribute name is ASCII case-insensitive. The double quoted form is
// searched first across the whole fragment.
func Locate(fragment, attr string) (Location, bool) {
	if attr == "" || fragment == "" {
		return Location{}, false
	}
	for _, quote := range []byte{'"', '\''} {
		needle := attr + "=" + string(quote)
		if idx := indexFold(fragment, needle); idx >= 0 {
			return Location{
				Start:      idx,
				ValueStart: idx + len(needle),
				Quote:      quote,
			}, true
		}
	}
	return Location{}, false
}

// MergeAttribute merges tokens into attr. When unique is true existing tokens
// are deduplicated against the new ones, otherwise tokens are prepended to the
// current value as-is.
func MergeAttribute(fragment, attr, tokens string, unique bool) string {
	if unique {
		return MergeUnique(fragment, attr, tokens)
	}
	return AppendTokens(fragment, attr, tokens)
}

// MergeUnique adds every token that is not already present in the attribute
// value. Bytes outside the value span are left untouched. Fragments without
// the attribute, or with an unterminated value, are returned unchanged.
func MergeUnique(fragment, attr, tokens string) string {
	loc, ok := Locate(fragment, attr)
	if !ok {
		return fragment
	}

	end := strings.IndexByte(fragment[loc.ValueStart:], loc.Quote)
	if end < 0 {
		return fragment
	}
	end += loc.ValueStart

	current := strings.Split(fragment[loc.ValueStart:end], " ")
	for _, token := range strings.Split(strings.TrimSpace(tokens), " ") {
		if token == "" || slices.Contains(current, token) {
			continue
		}
		current = append(current, token)
	}

	value := classes.Join(classes.Unique(current))
	return fragment[:loc.ValueStart] + value + fragment[end:]
}

// AppendTokens rewrites the first `attr=<quote>` occurrence so the value
// starts with tokens followed by a space. No deduplication is performed, so
// callers must only use it with tokens known to be disjoint from the current
// value.
func AppendTokens(fragment, attr, tokens string) string {
	tokens = strings.TrimSpace(tokens)
	if tokens == "" {
		return fragment
	}
	loc, ok := Locate(fragment, attr)
	if !ok {
		return fragment
	}
	return fragment[:loc.ValueStart] + tokens + " " + fragment[loc.ValueStart:]
}

// indexFold is strings.Index with ASCII case folding. Offsets refer to s.
func indexFold(s, substr string) int {
	n := len(substr)
	if n == 0 {
		return 0
	}
	for i := 0; i+n <= len(s); i++ {
		if equalFoldASCII(s[i:i+n], substr) {
			return i
		}
	}
	return -1
}

func equalFoldASCII(a, b string) bool {
	for i := 0; i < len(a); i++ {
		if lowerASCII(a[i]) != lowerASCII(b[i]) {
			return false
		}
	}
	return true
}

func lowerASCII(c byte) byte {
	if 'A' <= c && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}
