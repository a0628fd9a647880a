// Package slug derives URL slugs from post titles.
package slug

import (
	"fmt"
	"strings"
	"unicode"
)

// Make lowercases the title and collapses every run of non-alphanumeric
// characters into a single hyphen. "Hello, World!" becomes "hello-world".
func Make(title string) string {
	var b strings.Builder
	b.Grow(len(title))

	pendingHyphen := false
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		} else {
			pendingHyphen = true
		}
	}

	s := b.String()
	if s == "" {
		s = "post"
	}
	return s
}

// WithSuffix returns base for n == 0 and base-n otherwise, the shape used
// when resolving slug collisions ("my-post", "my-post-1", "my-post-2", ...).
func WithSuffix(base string, n int) string {
	if n == 0 {
		return base
	}
	return fmt.Sprintf("%s-%d", base, n)
}
