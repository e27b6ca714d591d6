// Package fingerprint computes the content identity used throughout TrustChain.
// A fingerprint is the lowercase hex SHA-256 digest of the file bytes; two
// independent implementations hashing the same bytes must produce the same
// string, so verification works across versions.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HexLength is the length of a well-formed fingerprint string.
const HexLength = sha256.Size * 2

// Compute returns the fingerprint of data. It is total over all inputs,
// including the empty buffer.
func Compute(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Valid reports whether s is a well-formed fingerprint: exactly 64 hex
// characters, either case.
func Valid(s string) bool {
	if len(s) != HexLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// Normalize lowercases a fingerprint so comparisons are case-insensitive.
func Normalize(s string) string {
	return strings.ToLower(s)
}

// Equal compares two fingerprints case-insensitively.
func Equal(a, b string) bool {
	return strings.EqualFold(a, b)
}
