package domain

import "time"

// Config holds the resolved runtime configuration. The catalogue consumes
// these as plain values; parsing and defaulting happen in the config adapter.
type Config struct {
	// TempCapacity is the maximum number of temporary entries retained.
	TempCapacity int

	// TempLifetime is how long an unused temporary entry survives.
	TempLifetime time.Duration

	// LockTimeout bounds catalogue lock acquisition.
	LockTimeout time.Duration

	// IndexURL overrides the package index used by the builder. Empty means
	// the builder default.
	IndexURL string

	// IncludePip seeds pip into built environments.
	IncludePip bool

	// UvPath is the builder binary, resolved through PATH when relative.
	UvPath string

	// DataDir overrides the catalogue root. Empty means the platform default.
	DataDir string

	// Telemetry enables span export around catalogue operations.
	Telemetry bool
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		TempCapacity: 10,
		TempLifetime: 24 * time.Hour,
		LockTimeout:  10 * time.Second,
		IncludePip:   true,
		UvPath:       "uv",
	}
}
