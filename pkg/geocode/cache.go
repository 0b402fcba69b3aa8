package geocode

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

// CacheKey returns SHA-256 hex of the normalized address. Case and
// surrounding or repeated whitespace do not change the key.
func CacheKey(address string) string {
	normalized := strings.ToLower(strings.Join(strings.Fields(address), " "))
	h := sha256.Sum256([]byte(normalized))
	return fmt.Sprintf("%x", h)
}
