package errors

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// ValidateFieldName validates a record field selector.
//
// Field names are looked up verbatim in data records, so the rules only
// reject names that can never match a decoded JSON or CSV key:
//   - No empty names
//   - No control characters
//   - Maximum length of 128 characters
func ValidateFieldName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidConfig, "field name cannot be empty")
	}
	if len(name) > 128 {
		return New(ErrCodeInvalidConfig, "field name too long (max 128 characters)")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidConfig, "field name contains invalid control characters")
		}
	}
	return nil
}

// ValidateContainerID validates a container identifier issued by a host.
func ValidateContainerID(id string) error {
	if id == "" {
		return New(ErrCodeNotFound, "container id cannot be empty")
	}
	if _, err := uuid.Parse(id); err != nil {
		return Wrap(ErrCodeNotFound, err, "invalid container id %q", id)
	}
	return nil
}

// ValidatePath validates an output path for rendered frames.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid control characters")
		}
	}

	for _, part := range strings.Split(path, "/") {
		if part == ".." {
			return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
		}
	}

	return nil
}

// formatVerbRegex matches a single printf number verb such as %d, %.1f or %5.2e.
var formatVerbRegex = regexp.MustCompile(`%[-+# 0]*[0-9]*(\.[0-9]+)?[dfegsvx]`)

// ValidateNumberFormat validates a printf-style tick or label format.
// It must contain exactly one formatting verb; literal percent signs are
// written as %%.
func ValidateNumberFormat(format string) error {
	if format == "" {
		return nil
	}
	stripped := strings.ReplaceAll(format, "%%", "")
	if n := len(formatVerbRegex.FindAllString(stripped, -1)); n != 1 {
		return New(ErrCodeInvalidFormat, "format %q must contain exactly one verb, found %d", format, n)
	}
	if strings.Count(stripped, "%") != 1 {
		return New(ErrCodeInvalidFormat, "format %q contains an unknown verb", format)
	}
	return nil
}
