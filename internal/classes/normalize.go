package classes

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// RenderContext describes the widget being rendered. Contributors receive it
// alongside the current token list.
type RenderContext struct {
	WidgetID string
	Number   int
	// Settings is the record selected for the current instance, nil when missing.
	Settings map[string]any
	// Options is the full record collection stored for the widget type.
	Options map[int]map[string]any
	// Descriptor carries the host's widget descriptor untouched.
	Descriptor any
}

// Contributor adds, removes or reorders class tokens for a widget render.
type Contributor func(tokens []string, rc RenderContext) []string

// Normalizer turns a raw classes string into the escaped token string that is
// merged into widget markup.
type Normalizer struct {
	contributors []Contributor
}

// NewNormalizer constructs a normalizer with the given contributor chain.
// Contributors run in the order supplied.
func NewNormalizer(contributors ...Contributor) *Normalizer {
	n := &Normalizer{}
	for _, contributor := range contributors {
		n.Use(contributor)
	}
	return n
}

// Use appends a contributor to the chain. Nil contributors are ignored.
func (n *Normalizer) Use(contributor Contributor) {
	if contributor == nil {
		return
	}
	n.contributors = append(n.contributors, contributor)
}

// Contributors returns a copy of the registered chain.
func (n *Normalizer) Contributors() []Contributor {
	if n == nil {
		return nil
	}
	return append([]Contributor(nil), n.contributors...)
}

// Normalize splits raw, runs the contributor chain and returns the
// deduplicated, attribute-escaped token string. An empty result means there
// is nothing to merge.
func (n *Normalizer) Normalize(raw string, rc RenderContext) string {
	tokens := Split(raw)
	if n != nil {
		for _, contributor := range n.contributors {
			tokens = contributor(tokens, rc)
		}
	}
	return EscapeAttr(Join(Unique(tokens)))
}

// Normalize runs the normalization pipeline without contributors.
func Normalize(raw string) string {
	return (*Normalizer)(nil).Normalize(raw, RenderContext{})
}

// Split breaks raw on single spaces. Runs of spaces produce empty tokens,
// which are dropped later by Unique.
func Split(raw string) []string {
	if raw == "" {
		return nil
	}
	return strings.Split(raw, " ")
}

// Unique keeps the first occurrence of every token and drops empty ones.
func Unique(tokens []string) []string {
	if len(tokens) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if token == "" {
			continue
		}
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		out = append(out, token)
	}
	return out
}

// Join concatenates tokens with single spaces.
func Join(tokens []string) string {
	return strings.Join(tokens, " ")
}

var entityRef = regexp.MustCompile(`&(?:[a-zA-Z][a-zA-Z0-9]*|#[0-9]+|#[xX][0-9a-fA-F]+);`)

// EscapeAttr encodes a value for use inside a quoted HTML attribute. Character
// references already present in value are kept as-is, so an encoded value is
// never encoded twice.
func EscapeAttr(value string) string {
	if value == "" {
		return ""
	}
	refs := entityRef.FindAllStringIndex(value, -1)
	if len(refs) == 0 {
		return html.EscapeString(value)
	}
	var out strings.Builder
	last := 0
	for _, ref := range refs {
		out.WriteString(html.EscapeString(value[last:ref[0]]))
		out.WriteString(value[ref[0]:ref[1]])
		last = ref[1]
	}
	out.WriteString(html.EscapeString(value[last:]))
	return out.String()
}
