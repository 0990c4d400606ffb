package validate

import (
	"strings"
	"unicode/utf8"
)

const (
	minNameLength = 2
	maxNameLength = 60
)

type Code string

const (
	TooShort          Code = "too_short"
	TooLong           Code = "too_long"
	InvalidCharacters Code = "invalid_characters"
	InvalidOption     Code = "invalid_option"
	OutOfRange        Code = "out_of_range"
)

// Error is a field-level validation failure. It never escapes past the
// caller that triggered it; handlers render it inline next to the field.
type Error struct {
	Field   string
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// ProjectName checks a project name against the naming rules and, on
// success, returns its URL-safe slug. Rules apply in order; the first
// failure wins.
func ProjectName(name string) (string, error) {
	// Length rules count characters, not bytes, so multi-byte names land
	// on the right rule.
	length := utf8.RuneCountInString(name)
	if length < minNameLength {
		return "", &Error{
			Field:   "name",
			Code:    TooShort,
			Message: "Project name must be at least 2 characters",
		}
	}
	if length > maxNameLength {
		return "", &Error{
			Field:   "name",
			Code:    TooLong,
			Message: "Project name must be 60 characters or fewer",
		}
	}
	for _, r := range name {
		if !isAllowed(r) {
			return "", &Error{
				Field:   "name",
				Code:    InvalidCharacters,
				Message: "Project name may only contain letters, digits and hyphens",
			}
		}
	}
	return Slugify(name), nil
}

// Slugify lowercases the input, collapses every run of characters outside
// [a-z0-9] into a single hyphen and trims hyphens from both ends.
func Slugify(s string) string {
	var b strings.Builder
	pendingHyphen := false

	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		} else {
			pendingHyphen = true
		}
	}

	return b.String()
}

func isAllowed(r rune) bool {
	switch {
	case r >= 'A' && r <= 'Z':
		return true
	case r >= 'a' && r <= 'z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == '-':
		return true
	}
	return false
}
