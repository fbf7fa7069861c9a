package ports

// ContentHasher computes the 64-bit content hash used for cache validation.
//
//go:generate mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type ContentHasher interface {
	// Sum64 hashes data. Equal input always yields equal output across runs and platforms.
	Sum64(data []byte) uint64
}
