package domain

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/rivo/uniseg"
)

// maxNameLength bounds subscriber names. Counted in grapheme clusters, so a
// name built from combining marks or emoji sequences is measured the way a
// reader sees it. The database column is unbounded text, this is purely a
// business rule.
const maxNameLength = 256

// forbiddenNameChars are rejected outright to keep names safe to embed in
// email bodies and log lines without escaping.
var forbiddenNameChars = [...]rune{'/', '(', ')', '"', '<', '>', '\\', '{', '}'}

// SubscriberName is a validated display name. The zero value is invalid;
// the only constructor is ParseSubscriberName.
type SubscriberName struct {
	value string
}

// ParseSubscriberName validates raw form input as a subscriber name.
// The input is trimmed; the trimmed value must be non-empty, at most 256
// characters, and free of control characters and the forbidden set.
// Non-conforming input is rejected, never sanitized.
func ParseSubscriberName(raw string) (SubscriberName, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return SubscriberName{}, fmt.Errorf("name must not be empty")
	}
	if uniseg.GraphemeClusterCount(trimmed) > maxNameLength {
		return SubscriberName{}, fmt.Errorf("name must be at most %d characters", maxNameLength)
	}
	for _, r := range trimmed {
		if unicode.IsControl(r) {
			return SubscriberName{}, fmt.Errorf("name must not contain control characters")
		}
		for _, f := range forbiddenNameChars {
			if r == f {
				return SubscriberName{}, fmt.Errorf("name must not contain %q", f)
			}
		}
	}
	return SubscriberName{value: trimmed}, nil
}

// String returns the validated name.
func (n SubscriberName) String() string { return n.value }
