// pkg/interaction/validate.go
package interaction

import (
	"errors"
	"strings"
)

// ValidateRequired returns a validator that rejects only the empty string,
// failing with message.
func ValidateRequired(message string) func(string) error {
	return func(input string) error {
		if input == "" {
			return errors.New(message)
		}
		return nil
	}
}

// NormalizeYesNoInput parses y/yes/n/no case-insensitively. The second result
// is false when the input is neither.
func NormalizeYesNoInput(input string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case YesShort, YesLong:
		return true, true
	case NoShort, NoLong:
		return false, true
	}
	return false, false
}
