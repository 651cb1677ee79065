package utils

import (
	"crypto/sha1"
	"encoding/hex"
)

// HashString returns the hex-encoded SHA1 of a string. Used as a
// deterministic fallback ID for grievances submitted without one.
func HashString(s string) string {
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}
