package app

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/spf13/afero"
	"go.trai.ch/shadercache/internal/adapters/cas"       //nolint:depguard // Wired in app layer
	"go.trai.ch/shadercache/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/shadercache/internal/adapters/fs"        //nolint:depguard // Wired in app layer
	"go.trai.ch/shadercache/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/shadercache/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/shadercache/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			fs.NodeID,
			cas.NodeID,
			logger.NodeID,
			telemetry.RecorderNodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			a, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return &Components{App: a, Logger: log}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	fsys, err := graft.Dep[afero.Fs](ctx)
	if err != nil {
		return nil, err
	}

	opener, err := graft.Dep[*cas.Opener](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	recorder, err := graft.Dep[*telemetry.Recorder](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, fsys, opener, log, recorder), nil
}
