package errors

import (
	"strings"
	"unicode"
)

// maxPrefixLength bounds the artifact filename prefix.
const maxPrefixLength = 128

// ValidatePrefix validates an artifact filename prefix.
// The prefix is prepended to generated stack names, so it must not be able to
// steer output outside the output directory.
//
// Validation rules:
//   - Empty is allowed (no prefix)
//   - Maximum length of 128 characters
//   - No control characters or null bytes
//   - No path separators or traversal sequences
func ValidatePrefix(prefix string) error {
	if prefix == "" {
		return nil
	}

	if len(prefix) > maxPrefixLength {
		return New(ErrCodeInvalidPath, "prefix too long (max %d characters)", maxPrefixLength)
	}

	for _, r := range prefix {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "prefix contains invalid control characters")
		}
	}

	if strings.ContainsAny(prefix, `/\`) {
		return New(ErrCodeInvalidPath, "prefix cannot contain path separators")
	}

	if strings.Contains(prefix, "..") {
		return New(ErrCodeInvalidPath, "prefix cannot contain path traversal sequences (..)")
	}

	return nil
}

// ValidateOutputDir validates an output directory path.
// Absolute and relative paths are both fine; the path only has to be usable.
func ValidateOutputDir(dir string) error {
	if dir == "" {
		return New(ErrCodeInvalidPath, "output directory cannot be empty")
	}

	for _, r := range dir {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "output directory contains invalid characters")
		}
	}

	return nil
}
