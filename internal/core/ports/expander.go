package ports

import "go.trai.ch/shadercache/internal/core/domain"

// SourceExpander flattens a source file by resolving its include directives.
//
//go:generate mockgen -source=expander.go -destination=mocks/mock_expander.go -package=mocks
type SourceExpander interface {
	// Expand reads path and returns the flattened text with its content hash.
	Expand(path string) (domain.ExpandedSource, error)
}
