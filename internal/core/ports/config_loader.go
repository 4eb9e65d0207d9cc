package ports

import "go.trai.ch/keep/internal/core/domain"

// ConfigLoader defines the interface for loading the tool configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the configuration file at path and applies defaults. An
	// empty path means the platform default location. A missing file yields
	// the defaults without error.
	Load(path string) (*domain.Config, error)
}
