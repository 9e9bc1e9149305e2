package utils

import (
	"errors"
	"fmt"
	"unicode"
	"unicode/utf8"
)

// ErrInvalidInput is returned for query text that cannot be served.
var ErrInvalidInput = errors.New("invalid input")

// ContainsControl checks if a string holds control characters (newline, tab, NUL...)
func ContainsControl(s string) bool {
	for _, r := range s {
		if unicode.IsControl(r) {
			return true
		}
	}
	return false
}

// ValidateQueryText checks text received from a client before it reaches the
// engine: valid UTF-8, no control characters, at most maxRunes runes when
// maxRunes > 0. Empty text is valid.
func ValidateQueryText(field, s string, maxRunes int) error {
	if !utf8.ValidString(s) {
		return fmt.Errorf("%w: %s is not valid utf-8", ErrInvalidInput, field)
	}
	if ContainsControl(s) {
		return fmt.Errorf("%w: %s contains control characters", ErrInvalidInput, field)
	}
	if maxRunes > 0 && utf8.RuneCountInString(s) > maxRunes {
		return fmt.Errorf("%w: %s longer than %d characters", ErrInvalidInput, field, maxRunes)
	}
	return nil
}
