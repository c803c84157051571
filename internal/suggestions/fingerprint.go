package suggestions

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint is the dedup/blocking identity of a suggestion: the same
// normalized text with the same source type always collides.
func Fingerprint(text string, sourceType SourceType) string {
	input := normalizeText(text) + ":" + string(sourceType)
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])
}
