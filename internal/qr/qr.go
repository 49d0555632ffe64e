// Package qr produces item codes, deep links, and printable QR labels.
//
// The generator never consults the store; collision detection and retry are
// the store's responsibility, which keeps the dependency one-directional.
package qr

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Code format: a stable two-letter prefix plus a fixed-length random suffix.
const (
	// CodePrefix is printed at the start of every item code.
	CodePrefix = "QR"
	// suffixLen is the number of hex characters after the prefix.
	suffixLen = 6
)

// startPayloadPrefix marks a deep-link start parameter carrying an item code.
const startPayloadPrefix = "found_"

// GenerateCode returns a fresh item code, e.g. "QR3FA2B1".
//
// The suffix is drawn from a random UUID, so guessing another user's code is
// impractical at any realistic item population. Uniqueness is only
// probabilistic here; the store enforces it with a unique constraint.
func GenerateCode() string {
	id := uuid.New()
	suffix := strings.ToUpper(hex.EncodeToString(id[:]))[:suffixLen]
	return CodePrefix + suffix
}

// NormalizeCode upper-cases and trims a code for lookup. All lookup
// boundaries must pass codes through this first.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidCode reports whether a normalized code has the expected shape.
func ValidCode(code string) bool {
	if !strings.HasPrefix(code, CodePrefix) {
		return false
	}
	suffix := code[len(CodePrefix):]
	if len(suffix) < 3 {
		return false
	}
	for _, r := range suffix {
		isDigit := r >= '0' && r <= '9'
		isUpper := r >= 'A' && r <= 'Z'
		if !isDigit && !isUpper {
			return false
		}
	}
	return true
}

// DeepLink builds the scan URL printed inside a QR label.
func DeepLink(domain, botHandle, code string) string {
	return fmt.Sprintf("https://%s/%s?start=%s%s", domain, botHandle, startPayloadPrefix, NormalizeCode(code))
}

// ParseStartPayload extracts a normalized code from a deep-link start
// parameter. It returns false when the payload does not carry a code.
func ParseStartPayload(payload string) (string, bool) {
	trimmed := strings.TrimSpace(payload)
	if !strings.HasPrefix(trimmed, startPayloadPrefix) {
		return "", false
	}
	code := NormalizeCode(strings.TrimPrefix(trimmed, startPayloadPrefix))
	if code == "" {
		return "", false
	}
	return code, true
}
