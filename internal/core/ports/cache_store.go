package ports

import "go.trai.ch/shadercache/internal/core/domain"

// CacheStore persists compiled artifacts keyed by compile request.
//
//go:generate mockgen -source=cache_store.go -destination=mocks/mock_cache_store.go -package=mocks
type CacheStore interface {
	// KeyFor derives the cache key of a request. Distinct requests map to distinct keys.
	KeyFor(req domain.CompileRequest) string

	// Lookup returns the entry stored under key.
	// Returns nil, nil on a miss, including partially written or corrupt entries.
	Lookup(key string) (*domain.CacheEntry, error)

	// Store persists an artifact and the source hash it was compiled from.
	Store(key string, hash uint64, artifact domain.Artifact) error
}
