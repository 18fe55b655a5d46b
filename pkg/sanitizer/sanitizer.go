// Package sanitizer strips markup from untrusted user input before it
// is stored or echoed back.
package sanitizer

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicy *bluemonday.Policy
	initOnce     sync.Once
)

func policy() *bluemonday.Policy {
	initOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
	})
	return strictPolicy
}

// StripHTML removes every HTML element and attribute, returning plain
// text. Use for free-text form fields that should never carry markup.
func StripHTML(s string) string {
	return policy().Sanitize(s)
}

// StripAndTrim strips markup and trims surrounding whitespace, which
// also collapses inputs that were markup-only down to the empty string.
func StripAndTrim(s string) string {
	return strings.TrimSpace(StripHTML(s))
}
