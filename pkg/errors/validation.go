package errors

import (
	"strings"
	"unicode"
)

// MaxIDLength is the longest identifier accepted by [ValidateID].
const MaxIDLength = 256

// ValidateID validates an equipment or connectivity node identifier.
//
// The validation rules are intentionally conservative:
//   - No empty identifiers
//   - No control characters or null bytes
//   - No leading or trailing whitespace
//   - Maximum length of 256 characters
//
// Identifiers appear in log lines, DOT output and file names, so anything
// that could break those surfaces is rejected here.
func ValidateID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidID, "identifier cannot be empty")
	}

	if len(id) > MaxIDLength {
		return New(ErrCodeInvalidID, "identifier too long (max %d characters)", MaxIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidID, "identifier %q contains invalid control characters", id)
		}
	}

	if strings.TrimSpace(id) != id {
		return New(ErrCodeInvalidID, "identifier %q has leading or trailing whitespace", id)
	}

	return nil
}

// ValidateIDs validates every identifier in ids and returns the first failure.
func ValidateIDs(ids []string) error {
	for _, id := range ids {
		if err := ValidateID(id); err != nil {
			return err
		}
	}
	return nil
}
