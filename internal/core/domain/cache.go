package domain

import (
	"strings"
	"time"

	"go.trai.ch/zerr"
)

// Artifact is the opaque compiled output of one request.
type Artifact []byte

// Clone returns a copy of the artifact bytes.
func (a Artifact) Clone() Artifact {
	if a == nil {
		return nil
	}
	out := make(Artifact, len(a))
	copy(out, a)
	return out
}

// Mode selects the cache subdirectory and compiler debug settings.
type Mode string

const (
	// ModeRelease compiles optimized artifacts.
	ModeRelease Mode = "release"
	// ModeDebug compiles artifacts with debug information.
	ModeDebug Mode = "debug"
)

// ParseMode parses a case-insensitive mode name. An empty string selects release.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(ModeRelease):
		return ModeRelease, nil
	case string(ModeDebug):
		return ModeDebug, nil
	default:
		return "", zerr.With(zerr.Wrap(ErrInvalidCacheMode, "failed to parse cache mode"), "mode", s)
	}
}

// DirName returns the cache subdirectory name for the mode.
func (m Mode) DirName() string {
	if m == ModeDebug {
		return DebugDirName
	}
	return ReleaseDirName
}

// IsDebug reports whether the mode requests debug compilation.
func (m Mode) IsDebug() bool {
	return m == ModeDebug
}

// CacheConfig locates the on-disk cache. It is passed explicitly to the store.
type CacheConfig struct {
	Root string
	Mode Mode
	// Seed feeds the content hash. Changing it invalidates every entry.
	Seed uint64
	// Compiler is the backend fingerprint folded into every key, so artifacts of
	// different backends or backend settings never answer for each other.
	Compiler string
}

// Dir returns the directory holding entries for the configured mode.
func (c CacheConfig) Dir() string {
	return ModeCachePath(c.Root, c.Mode)
}

// CacheEntry is a persisted artifact plus the source hash it was compiled from.
type CacheEntry struct {
	StoredHash uint64
	Artifact   Artifact
}

// CacheRecord describes one entry on disk for listing purposes.
type CacheRecord struct {
	Key     string
	Size    int64
	ModTime time.Time
}

// CompileResult is the outcome of a successful compile session.
type CompileResult struct {
	Artifact Artifact
	Key      string
	Hash     uint64
	CacheHit bool
	Attempts int
	// CacheErr holds a non-fatal failure to persist the artifact.
	CacheErr error
}
