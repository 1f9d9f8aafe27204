// Package checksum provides content digests used for change detection and
// snapshot fingerprinting.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Fingerprint digests a path → checksum map into a single stable value.
// Two content trees with identical files produce identical fingerprints
// regardless of listing order.
func Fingerprint(checksums map[string]string) string {
	paths := make([]string, 0, len(checksums))
	for p := range checksums {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var b strings.Builder
	for _, p := range paths {
		b.WriteString(p)
		b.WriteByte(0)
		b.WriteString(checksums[p])
		b.WriteByte(0)
	}
	return Sum([]byte(b.String()))
}
