package app

import (
	"context"

	"github.com/grindlemire/graft"

	"go.trai.ch/keep/internal/adapters/config"
	"go.trai.ch/keep/internal/adapters/flock"
	"go.trai.ch/keep/internal/adapters/lockfile"
	"go.trai.ch/keep/internal/adapters/logger"
	"go.trai.ch/keep/internal/adapters/scriptfile"
	"go.trai.ch/keep/internal/adapters/shell"
	"go.trai.ch/keep/internal/adapters/store"
	"go.trai.ch/keep/internal/adapters/telemetry"
	"go.trai.ch/keep/internal/adapters/watcher"
	"go.trai.ch/keep/internal/core/domain"
	"go.trai.ch/keep/internal/core/ports"
)

// Components contains the initialized application components handed to the
// command layer.
type Components struct {
	App    *App
	Logger ports.Logger
	Config *domain.Config
}

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			scriptfile.NodeID,
			lockfile.NodeID,
			store.NodeID,
			flock.NodeID,
			shell.NodeID,
			watcher.NodeID,
			logger.NodeID,
			telemetry.NodeID,
			config.NodeID,
		},
		Run: runAppNode,
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			config.NodeID,
		},
		Run: runComponentsNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	specReader, err := graft.Dep[ports.SpecReader](ctx)
	if err != nil {
		return nil, err
	}

	lockStore, err := graft.Dep[ports.LockStore](ctx)
	if err != nil {
		return nil, err
	}

	catStore, err := graft.Dep[ports.CatalogueStore](ctx)
	if err != nil {
		return nil, err
	}

	locker, err := graft.Dep[ports.Locker](ctx)
	if err != nil {
		return nil, err
	}

	executor, err := graft.Dep[ports.Executor](ctx)
	if err != nil {
		return nil, err
	}

	fileWatcher, err := graft.Dep[ports.Watcher](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	tracer, err := graft.Dep[ports.Tracer](ctx)
	if err != nil {
		return nil, err
	}

	cfg, err := graft.Dep[*domain.Config](ctx)
	if err != nil {
		return nil, err
	}

	return New(specReader, lockStore, catStore, locker, executor, fileWatcher, log, tracer, cfg), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	application, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	cfg, err := graft.Dep[*domain.Config](ctx)
	if err != nil {
		return nil, err
	}

	return &Components{
		App:    application,
		Logger: log,
		Config: cfg,
	}, nil
}
