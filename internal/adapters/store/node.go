package store

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/keep/internal/adapters/config"
	"go.trai.ch/keep/internal/adapters/logger"
	"go.trai.ch/keep/internal/core/domain"
	"go.trai.ch/keep/internal/core/ports"
)

// NodeID is the unique identifier for the catalogue store Graft node.
const NodeID graft.ID = "adapter.catalogue_store"

func init() {
	graft.Register(graft.Node[ports.CatalogueStore]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.CatalogueStore, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewStore(domain.CataloguePath(cfg.DataDir), log), nil
		},
	})
}
