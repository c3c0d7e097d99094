package jsast

import (
	"crypto/sha256"
	"encoding/hex"
)

// FingerprintSize is the length of a content fingerprint in hex characters.
const FingerprintSize = 64

// Fingerprint computes the stable content fingerprint of rendered output:
// identical text always produces the identical digest, which downstream
// caching and dedup rely on.
func Fingerprint(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
