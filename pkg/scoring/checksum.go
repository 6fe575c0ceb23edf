package scoring

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// ChecksumLength is the number of hex characters retained from the
// aggregate digest for storage compactness.
const ChecksumLength = 16

// Checksum returns the full SHA-256 hex digest of a single text chunk.
func Checksum(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// AggregateChecksum combines per-chunk digests into one fixed-length
// fingerprint. Digests are sorted before hashing so the aggregate is
// insensitive to chunk discovery order; any change to any chunk changes
// the result. The aggregate is truncated to ChecksumLength hex characters.
func AggregateChecksum(checksums []string) string {
	sorted := make([]string, len(checksums))
	copy(sorted, checksums)
	sort.Strings(sorted)

	sum := sha256.Sum256([]byte(strings.Join(sorted, "")))
	return hex.EncodeToString(sum[:])[:ChecksumLength]
}
