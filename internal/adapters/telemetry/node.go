package telemetry

import (
	"context"

	"github.com/grindlemire/graft"
)

// TracerNodeID is the unique identifier for the telemetry Graft node.
const TracerNodeID graft.ID = "adapter.telemetry"

func init() {
	graft.Register(graft.Node[*OTelTracer]{
		ID:        TracerNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*OTelTracer, error) {
			return NewOTelTracer("forge"), nil
		},
	})
}
