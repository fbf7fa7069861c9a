package domain

// ExpandedSource is a source file with every include directive replaced by the included text.
// It lives only for the duration of a compile and is never persisted.
type ExpandedSource struct {
	Text string
	Hash uint64
	// Files lists every file read during expansion, root first.
	Files []string
}

// Diagnostic is a compiler error message for a rejected source.
type Diagnostic struct {
	SourcePath string
	Message    string
}

// Error implements the error interface.
func (d *Diagnostic) Error() string {
	if d.SourcePath == "" {
		return d.Message
	}
	return `error compiling shader file "` + d.SourcePath + `": ` + d.Message
}
