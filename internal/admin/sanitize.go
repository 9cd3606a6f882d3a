package admin

import (
	"bytes"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/goliatone/go-widget-classes/internal/settings"
)

var percentOctet = regexp.MustCompile(`%[a-fA-F0-9]{2}`)

// SanitizeText reduces admin input to a single line of plain text. Invalid
// UTF-8 yields an empty string; tags are removed along with script and style
// bodies; percent-encoded octets are dropped; whitespace runs collapse to a
// single space. A "<" that does not open a tag is kept as "&lt;".
func SanitizeText(input string) string {
	if input == "" || !utf8.ValidString(input) {
		return ""
	}
	text := input
	if strings.Contains(text, "<") {
		text = escapeStrayLess(text)
		if strings.Contains(text, "<") {
			text = stripTags(text)
		}
	}
	for percentOctet.MatchString(text) {
		text = percentOctet.ReplaceAllString(text, "")
	}
	return strings.Join(strings.Fields(text), " ")
}

// escapeStrayLess rewrites every "<" that is not closed by a ">" before the
// next "<" or the end of input.
func escapeStrayLess(input string) string {
	var out strings.Builder
	for i := 0; i < len(input); i++ {
		c := input[i]
		if c != '<' {
			out.WriteByte(c)
			continue
		}
		rest := input[i+1:]
		if end := strings.IndexAny(rest, "<>"); end >= 0 && rest[end] == '>' {
			out.WriteByte(c)
			continue
		}
		out.WriteString("&lt;")
	}
	return out.String()
}

func stripTags(input string) string {
	var out bytes.Buffer
	tokenizer := html.NewTokenizer(strings.NewReader(input))
	skip := 0
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return out.String()
		case html.TextToken:
			if skip == 0 {
				out.Write(tokenizer.Raw())
			}
		case html.StartTagToken:
			if isRawTextTag(tokenizer) {
				skip++
			}
		case html.EndTagToken:
			if skip > 0 && isRawTextTag(tokenizer) {
				skip--
			}
		}
	}
}

func isRawTextTag(tokenizer *html.Tokenizer) bool {
	name, _ := tokenizer.TagName()
	switch atom.Lookup(name) {
	case atom.Script, atom.Style:
		return true
	default:
		return false
	}
}

// UpdateInstance copies old and replaces its classes value with the sanitized
// submission. A missing or empty submission stores an empty string.
func UpdateInstance(old, submitted settings.InstanceSettings) settings.InstanceSettings {
	return updateInstance(old, submitted, settings.ClassesKey)
}

func updateInstance(old, submitted settings.InstanceSettings, key string) settings.InstanceSettings {
	next := old.Clone()
	if next == nil {
		next = settings.InstanceSettings{}
	}
	next[key] = SanitizeText(settings.Value(submitted, key))
	return next
}
