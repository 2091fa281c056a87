// Package richtext cleans admin-authored HTML course descriptions.
package richtext

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// descriptionPolicy keeps the formatting an editor produces and drops
	// scripts, event handlers and other active content.
	descriptionPolicy = bluemonday.UGCPolicy()
	plainPolicy       = bluemonday.StrictPolicy()
)

// Sanitize returns description HTML that is safe to store and render.
func Sanitize(s string) string {
	return strings.TrimSpace(descriptionPolicy.Sanitize(s))
}

// PlainText strips every tag and collapses whitespace. Adjacent block
// elements are separated by a single space.
func PlainText(s string) string {
	spaced := strings.ReplaceAll(s, "<", " <")
	text := html.UnescapeString(plainPolicy.Sanitize(spaced))
	return strings.Join(strings.Fields(text), " ")
}
