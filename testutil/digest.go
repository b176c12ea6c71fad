package testutil

import (
	"io"

	"github.com/cespare/xxhash/v2"
)

// Digest returns the xxhash of data.
func Digest(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// DigestReader returns the xxhash of everything r yields.
func DigestReader(r io.Reader) (uint64, error) {
	h := xxhash.New()
	if _, err := io.Copy(h, r); err != nil {
		return 0, err
	}
	return h.Sum64(), nil
}
