package telemetry

import (
	"context"

	"github.com/grindlemire/graft"
)

// RecorderNodeID is the unique identifier for the span Recorder Graft node.
const RecorderNodeID graft.ID = "adapter.telemetry.recorder"

func init() {
	graft.Register(graft.Node[*Recorder]{
		ID:        RecorderNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Recorder, error) {
			return NewRecorder(), nil
		},
	})
}
