package telemetry

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/keep/internal/adapters/config"
	"go.trai.ch/keep/internal/adapters/logger"
	"go.trai.ch/keep/internal/core/domain"
	"go.trai.ch/keep/internal/core/ports"
)

// NodeID is the unique identifier for the tracer Graft node.
const NodeID graft.ID = "adapter.tracer"

func init() {
	graft.Register(graft.Node[ports.Tracer]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.Tracer, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			if !cfg.Telemetry {
				return NewNoOpTracer(), nil
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			Setup(log)

			return NewOTelTracer("keep"), nil
		},
	})
}
