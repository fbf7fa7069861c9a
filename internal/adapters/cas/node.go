package cas

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/spf13/afero"
	"go.trai.ch/shadercache/internal/adapters/fs"
	"go.trai.ch/shadercache/internal/core/domain"
)

// NodeID is the unique identifier for the cache store opener Graft node.
const NodeID graft.ID = "adapter.cache_store"

// Opener opens stores on a shared filesystem once the cache configuration is known.
type Opener struct {
	fs afero.Fs
}

// NewOpener creates an Opener on fsys.
func NewOpener(fsys afero.Fs) *Opener {
	return &Opener{fs: fsys}
}

// Open returns the store for cfg.
func (o *Opener) Open(cfg domain.CacheConfig) *Store {
	return NewStore(o.fs, cfg)
}

func init() {
	graft.Register(graft.Node[*Opener]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fs.NodeID},
		Run: func(ctx context.Context) (*Opener, error) {
			fsys, err := graft.Dep[afero.Fs](ctx)
			if err != nil {
				return nil, err
			}
			return NewOpener(fsys), nil
		},
	})
}
