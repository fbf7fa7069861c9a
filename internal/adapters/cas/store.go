// Package cas implements the on-disk compiled artifact cache.
package cas

import (
	"errors"
	iofs "io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"go.trai.ch/shadercache/internal/core/domain"
	"go.trai.ch/shadercache/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.CacheStore = (*Store)(nil)

// Store implements ports.CacheStore as two files per key under <root>/<mode>/:
// <key>.cache holds the artifact and <key>.cache.hash holds its hash record.
type Store struct {
	fs  afero.Fs
	cfg domain.CacheConfig
}

// NewStore creates a Store for the given cache configuration.
// Nothing is created on disk until the first Store call.
func NewStore(fsys afero.Fs, cfg domain.CacheConfig) *Store {
	return &Store{fs: fsys, cfg: cfg}
}

// Dir returns the directory holding this store's entries.
func (s *Store) Dir() string {
	return s.cfg.Dir()
}

// KeyFor derives the cache key of a request.
func (s *Store) KeyFor(req domain.CompileRequest) string {
	return KeyFor(req, s.cfg.Compiler)
}

// Lookup returns the entry stored under key, or nil if there is no complete, intact entry.
func (s *Store) Lookup(key string) (*domain.CacheEntry, error) {
	artifactPath, hashPath := s.paths(key)

	//nolint:gosec // Path is constructed from the cache directory and a sanitized key
	data, err := afero.ReadFile(s.fs, hashPath)
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return nil, nil
		}
		return nil, ioError(err, "failed to read hash record", hashPath)
	}

	rec, ok := unmarshalHashRecord(data)
	if !ok {
		return nil, nil
	}

	artifact, err := afero.ReadFile(s.fs, artifactPath)
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return nil, nil
		}
		return nil, ioError(err, "failed to read artifact", artifactPath)
	}

	if !rec.matches(artifact) {
		return nil, nil
	}

	return &domain.CacheEntry{
		StoredHash: rec.sourceHash,
		Artifact:   artifact,
	}, nil
}

// Store persists artifact under key.
//
// The old hash record is removed first and the new one is written last, each
// file through a temp file and rename, so an interrupted write leaves a miss.
func (s *Store) Store(key string, hash uint64, artifact domain.Artifact) error {
	dir := s.Dir()
	if err := s.fs.MkdirAll(dir, domain.DirPerm); err != nil {
		return ioError(err, "failed to create cache directory", dir)
	}

	artifactPath, hashPath := s.paths(key)

	if err := s.fs.Remove(hashPath); err != nil && !errors.Is(err, iofs.ErrNotExist) {
		return ioError(err, "failed to remove stale hash record", hashPath)
	}

	if err := s.writeAtomic(artifactPath, artifact); err != nil {
		return ioError(err, "failed to write artifact", artifactPath)
	}

	if err := s.writeAtomic(hashPath, newHashRecord(hash, artifact).marshal()); err != nil {
		return ioError(err, "failed to write hash record", hashPath)
	}

	return nil
}

// Clear removes every entry of the configured mode.
func (s *Store) Clear() error {
	if err := s.fs.RemoveAll(s.Dir()); err != nil {
		return ioError(err, "failed to remove cache directory", s.Dir())
	}
	return nil
}

// Entries lists the artifacts that have a hash record, sorted by key.
// Integrity is not checked here; Lookup does that.
func (s *Store) Entries() ([]domain.CacheRecord, error) {
	infos, err := afero.ReadDir(s.fs, s.Dir())
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return nil, nil
		}
		return nil, ioError(err, "failed to list cache directory", s.Dir())
	}

	present := make(map[string]bool, len(infos))
	for _, info := range infos {
		present[info.Name()] = true
	}

	var records []domain.CacheRecord
	for _, info := range infos {
		name := info.Name()
		if info.IsDir() || !strings.HasSuffix(name, domain.ArtifactExt) {
			continue
		}
		if !present[name+domain.HashExt] {
			continue
		}
		records = append(records, domain.CacheRecord{
			Key:     strings.TrimSuffix(name, domain.ArtifactExt),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	return records, nil
}

func (s *Store) paths(key string) (artifactPath, hashPath string) {
	artifactPath = filepath.Join(s.Dir(), key+domain.ArtifactExt)
	return artifactPath, artifactPath + domain.HashExt
}

func (s *Store) writeAtomic(path string, data []byte) error {
	tmp, err := afero.TempFile(s.fs, filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	_, err = tmp.Write(data)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = s.fs.Chmod(tmpName, domain.FilePerm)
	}
	if err == nil {
		err = s.fs.Rename(tmpName, path)
	}
	if err != nil {
		_ = s.fs.Remove(tmpName)
		return err
	}
	return nil
}

func ioError(err error, msg, path string) error {
	return zerr.With(zerr.Wrap(errors.Join(domain.ErrCacheIO, err), msg), "path", path)
}
