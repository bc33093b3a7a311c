// Package render draws call trees as text, Graphviz DOT and HTML.
package render

import (
	"fmt"
	"strings"
)

// dotEscape escapes a string for use in DOT HTML labels.
func dotEscape(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	return s
}

// htmlEscape escapes text for HTML bodies.
func htmlEscape(s string) string { return dotEscape(s) }

// dotID creates a safe DOT identifier from a symbol and a disambiguating
// sequence number. Tree nodes repeat symbols, so the number keeps them apart.
func dotID(name string, seq int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "n%d_", seq)
	for _, c := range name {
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_' {
			b.WriteRune(c)
		} else {
			fmt.Fprintf(&b, "_%04x", c)
		}
	}
	return b.String()
}

// truncLabel shortens a label to maxLen, appending "..." if truncated.
func truncLabel(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
