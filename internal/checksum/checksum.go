// Package checksum computes content digests used for change detection.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/openstrand/strandkit/internal/codec"
)

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Object digests v through its canonical encoding, so any field change moves
// the digest. Both the save path and the unpublished-changes probe must go
// through this function; comparing digests from different encodings is
// meaningless.
func Object(v any) (string, error) {
	data, err := codec.Encode(v)
	if err != nil {
		return "", fmt.Errorf("checksum: encode: %w", err)
	}
	return Sum(data), nil
}
