package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/zeebo/blake3"
)

const (
	SHA256 = "sha256"
	BLAKE3 = "blake3"
)

var ErrUnknownAlgorithm = errors.New("unknown hash algorithm")

// Func maps a byte sequence to a lowercase hex digest of fixed length.
type Func func(data []byte) string

// Digest computes the SHA-256 of data, hex encoded (64 characters).
func Digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Blake3Digest computes the 256-bit BLAKE3 of data, hex encoded.
func Blake3Digest(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// New returns the digest function registered under algorithm.
// An empty name selects SHA-256.
func New(algorithm string) (Func, error) {
	switch strings.ToLower(strings.TrimSpace(algorithm)) {
	case "", SHA256:
		return Digest, nil
	case BLAKE3:
		return Blake3Digest, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, algorithm)
	}
}

// Short returns the first n characters of digest followed by an ellipsis.
func Short(digest string, n int) string {
	if n < len(digest) {
		digest = digest[:n]
	}
	return digest + "..."
}
