// Package fs provides filesystem-backed source handling: content hashing and include expansion.
package fs

import (
	"github.com/cespare/xxhash/v2"
	"go.trai.ch/shadercache/internal/core/ports"
)

var _ ports.ContentHasher = (*Hasher)(nil)

// Hasher computes seeded xxHash64 digests.
type Hasher struct {
	seed uint64
}

// NewHasher creates a Hasher. A zero seed matches plain xxhash.Sum64.
func NewHasher(seed uint64) *Hasher {
	return &Hasher{seed: seed}
}

// Seed returns the configured seed.
func (h *Hasher) Seed() uint64 {
	return h.seed
}

// Sum64 hashes data.
func (h *Hasher) Sum64(data []byte) uint64 {
	if h.seed == 0 {
		return xxhash.Sum64(data)
	}
	d := xxhash.NewWithSeed(h.seed)
	_, _ = d.Write(data)
	return d.Sum64()
}
