// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/keep/internal/adapters/config"
	_ "go.trai.ch/keep/internal/adapters/flock"
	_ "go.trai.ch/keep/internal/adapters/lockfile"
	_ "go.trai.ch/keep/internal/adapters/logger"
	_ "go.trai.ch/keep/internal/adapters/scriptfile"
	_ "go.trai.ch/keep/internal/adapters/shell"
	_ "go.trai.ch/keep/internal/adapters/store"
	_ "go.trai.ch/keep/internal/adapters/telemetry"
	_ "go.trai.ch/keep/internal/adapters/watcher"
	// Register app nodes.
	_ "go.trai.ch/keep/internal/app"
)
