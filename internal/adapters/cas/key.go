package cas

import (
	"encoding/binary"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/shadercache/internal/core/domain"
)

// maxKeyPrefix bounds the readable part of a key so file names stay portable.
const maxKeyPrefix = 96

// KeyFor derives the cache key of a request compiled by the backend with the
// given fingerprint.
//
// The key is a readable prefix built from the source name, entry point, profile
// and macros, followed by a digest of the exact request and compiler. Only the
// digest carries identity, so sanitizing or truncating the prefix never merges
// two requests.
func KeyFor(req domain.CompileRequest, compiler string) string {
	base := filepath.Base(req.SourcePath)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	parts := make([]string, 0, 3+len(req.Macros))
	parts = append(parts, base, req.EntryPoint, req.Profile)
	parts = append(parts, req.Macros.Strings()...)

	prefix := SanitizeName(strings.Join(parts, "_"))
	if len(prefix) > maxKeyPrefix {
		prefix = prefix[:maxKeyPrefix]
	}
	return fmt.Sprintf("%s-%016x", prefix, identityHash(req, compiler))
}

func identityHash(req domain.CompileRequest, compiler string) uint64 {
	h := xxhash.New()
	writeField(h, compiler)
	writeField(h, filepath.ToSlash(filepath.Clean(req.SourcePath)))
	writeField(h, req.EntryPoint)
	writeField(h, req.Profile)

	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(len(req.Macros)))
	_, _ = h.Write(buf[:])
	for _, m := range req.Macros {
		writeField(h, m.Name)
		writeField(h, m.Value)
	}
	return h.Sum64()
}

// writeField writes a length-prefixed string so adjacent fields cannot run together.
func writeField(h *xxhash.Digest, s string) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(len(s)))
	_, _ = h.Write(buf[:])
	_, _ = h.WriteString(s)
}

// SanitizeName maps s to a single portable path component by replacing every
// character outside [A-Za-z0-9_.=-] with '_'.
func SanitizeName(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '_', r == '-', r == '.', r == '=':
			return r
		default:
			return '_'
		}
	}, s)
}
