package scriptfile

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/keep/internal/adapters/config"
	"go.trai.ch/keep/internal/adapters/logger"
	"go.trai.ch/keep/internal/core/domain"
	"go.trai.ch/keep/internal/core/ports"
)

// NodeID is the unique identifier for the spec reader Graft node.
const NodeID graft.ID = "adapter.spec_reader"

func init() {
	graft.Register(graft.Node[ports.SpecReader]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.SpecReader, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			cache := NewCache(domain.SpecCachePath(cfg.DataDir))
			return NewReader(cache, log), nil
		},
	})
}
