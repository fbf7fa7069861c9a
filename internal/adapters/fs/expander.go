package fs

import (
	"errors"
	iofs "io/fs"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/afero"
	"go.trai.ch/shadercache/internal/core/domain"
	"go.trai.ch/shadercache/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.SourceExpander = (*Expander)(nil)

const includeDirective = "#include"

// Expander replaces `#include "file"` lines with the expanded contents of the named file.
// Include paths resolve against the directory of the file containing the directive.
type Expander struct {
	fs     afero.Fs
	hasher ports.ContentHasher
}

// NewExpander creates an Expander reading through fsys.
func NewExpander(fsys afero.Fs, hasher ports.ContentHasher) *Expander {
	return &Expander{fs: fsys, hasher: hasher}
}

type expansion struct {
	out   strings.Builder
	files []string
	// stack holds the files currently being expanded, outermost first.
	stack []string
}

// Expand reads path, resolves every include directive recursively and hashes the result.
func (e *Expander) Expand(path string) (domain.ExpandedSource, error) {
	st := &expansion{}
	if err := e.expandFile(st, filepath.Clean(path), "", 0); err != nil {
		return domain.ExpandedSource{}, err
	}

	text := st.out.String()
	return domain.ExpandedSource{
		Text:  text,
		Hash:  e.hasher.Sum64([]byte(text)),
		Files: st.files,
	}, nil
}

func (e *Expander) expandFile(st *expansion, path, includedFrom string, line int) error {
	if slices.Contains(st.stack, path) {
		chain := append(slices.Clone(st.stack), path)
		err := zerr.Wrap(domain.ErrCircularInclude, "failed to expand source")
		return zerr.With(err, "chain", strings.Join(chain, " -> "))
	}

	data, err := afero.ReadFile(e.fs, path)
	if err != nil {
		return readError(err, path, includedFrom, line)
	}

	if !slices.Contains(st.files, path) {
		st.files = append(st.files, path)
	}

	st.stack = append(st.stack, path)
	defer func() { st.stack = st.stack[:len(st.stack)-1] }()

	dir := filepath.Dir(path)
	for i, text := range strings.Split(string(data), "\n") {
		if i > 0 {
			st.out.WriteByte('\n')
		}

		name, ok := parseInclude(text)
		if !ok {
			st.out.WriteString(text)
			continue
		}

		target := filepath.FromSlash(name)
		if !filepath.IsAbs(target) {
			target = filepath.Join(dir, target)
		}
		if err := e.expandFile(st, filepath.Clean(target), path, i+1); err != nil {
			return err
		}
		if strings.HasSuffix(text, "\r") {
			st.out.WriteByte('\r')
		}
	}
	return nil
}

func readError(err error, path, includedFrom string, line int) error {
	if !errors.Is(err, iofs.ErrNotExist) {
		return zerr.With(zerr.Wrap(err, domain.ErrSourceReadFailed.Error()), "path", path)
	}

	if includedFrom == "" {
		return zerr.With(zerr.Wrap(domain.ErrSourceNotFound, "failed to expand source"), "path", path)
	}

	wrapped := zerr.Wrap(domain.ErrIncludeNotFound, "failed to expand source")
	wrapped = zerr.With(wrapped, "path", path)
	wrapped = zerr.With(wrapped, "included_from", includedFrom)
	return zerr.With(wrapped, "line", line)
}

// parseInclude returns the quoted file name of an include directive line.
// Lines that are not well-formed directives are left to the compiler.
func parseInclude(line string) (string, bool) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(line), includeDirective)
	if !ok {
		return "", false
	}

	rest = strings.TrimSpace(rest)
	if !strings.HasPrefix(rest, `"`) {
		return "", false
	}

	end := strings.IndexByte(rest[1:], '"')
	if end <= 0 {
		return "", false
	}
	name := rest[1 : end+1]

	trailing := strings.TrimSpace(rest[end+2:])
	if trailing != "" && !strings.HasPrefix(trailing, "//") {
		return "", false
	}
	return name, true
}
