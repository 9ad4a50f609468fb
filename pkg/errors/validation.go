package errors

import (
	"math"
	"strings"
	"unicode"
)

// MaxIDLength is the longest accepted service, link or view identifier.
const MaxIDLength = 256

// ValidateID validates an identifier used as a map key across the layout
// stores. kind names the entity in the error message ("service", "link").
//
// The validation rules:
//   - No empty identifiers
//   - No control characters
//   - No surrounding whitespace
//   - Maximum length of MaxIDLength bytes
func ValidateID(kind, id string) error {
	if id == "" {
		return New(ErrCodeInvalidTopology, "%s id cannot be empty", kind)
	}

	if len(id) > MaxIDLength {
		return New(ErrCodeInvalidTopology, "%s id too long (max %d characters)", kind, MaxIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidTopology, "%s id contains invalid control characters", kind)
		}
	}

	if strings.TrimSpace(id) != id {
		return New(ErrCodeInvalidTopology, "%s id %q has surrounding whitespace", kind, id)
	}

	return nil
}

// ValidatePort validates a destination port. Port 0 is accepted because
// portless protocols (ICMP) report it.
func ValidatePort(port int) error {
	if port < 0 || port > 65535 {
		return New(ErrCodeInvalidTopology, "port %d out of range (0-65535)", port)
	}
	return nil
}

// ValidateNonNegative validates a configuration value that must be a finite
// number >= 0. NaN and infinities are rejected.
func ValidateNonNegative(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidConfig, "%s must be a finite number (got %g)", name, v)
	}
	if v < 0 {
		return New(ErrCodeInvalidConfig, "%s must not be negative (got %g)", name, v)
	}
	return nil
}
