package imgstore

import (
	"encoding/hex"

	sha256 "github.com/minio/sha256-simd"
)

// DigestSize is the length of a content digest
const DigestSize = sha256.Size

// Digest of the original bytes of an image, used as the deduplication key
type Digest [DigestSize]byte

// ComputeDigest of some content
func ComputeDigest(content []byte) Digest {
	return Digest(sha256.Sum256(content))
}

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// Compare two digests byte by byte, in index order.
//
// It returns 0 when both are equal, +1 when the first differing byte of a is
// greater than b's and -1 when it is lesser. Comparison stops at the first
// difference.
func Compare(a, b Digest) int {
	for i := 0; i < DigestSize; i++ {
		switch {
		case a[i] > b[i]:
			return 1
		case a[i] < b[i]:
			return -1
		}
	}
	return 0
}
