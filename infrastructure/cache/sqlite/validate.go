// ABOUTME: Key and value validation for the SQLite store
// ABOUTME: Rejects oversized or malformed input before it reaches the database

package sqlite

import (
	"errors"
	"fmt"
	"strings"

	"paperread-app/core/interfaces"
)

const (
	maxKeyLength   = 255
	maxValueLength = 1024 * 1024
)

// ValidateKey rejects empty, oversized and NUL-containing keys. Keys with
// quoting or comment characters are allowed (queries are parameterized) but
// logged, since storage keys are built from usernames.
func ValidateKey(key string, logger interfaces.Logger) error {
	if key == "" {
		return errors.New("key cannot be empty")
	}
	if len(key) > maxKeyLength {
		return fmt.Errorf("key too long: max %d characters", maxKeyLength)
	}
	if strings.Contains(key, "\x00") {
		return errors.New("key cannot contain null bytes")
	}

	if logger != nil && strings.ContainsAny(key, "'\";\\\n\r\t") {
		logger.Warn("Suspicious characters in storage key", map[string]interface{}{
			"key_length":  len(key),
			"key_preview": truncateKey(key),
		})
	}
	return nil
}

func truncateKey(key string) string {
	const maxPreview = 50
	if len(key) <= maxPreview {
		return key
	}
	return key[:maxPreview] + "..."
}

// ValidateValue rejects values larger than the store accepts
func ValidateValue(value []byte) error {
	if len(value) > maxValueLength {
		return fmt.Errorf("value too large: max %d bytes", maxValueLength)
	}
	return nil
}
