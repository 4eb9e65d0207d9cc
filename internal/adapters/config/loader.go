// Package config provides the configuration loader for keep.
package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"go.trai.ch/keep/internal/core/domain"
	"go.trai.ch/keep/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// keepfile mirrors the on-disk configuration. Pointer fields distinguish an
// absent key from an explicit zero.
type keepfile struct {
	CacheSize     *int   `yaml:"cache_size"`
	CacheLifetime string `yaml:"cache_lifetime"`
	LockTimeout   string `yaml:"lock_timeout"`
	IndexURL      string `yaml:"index_url"`
	IncludePip    *bool  `yaml:"include_pip"`
	UvPath        string `yaml:"uv_path"`
	DataDir       string `yaml:"data_dir"`
	Telemetry     bool   `yaml:"telemetry"`
}

// Load reads the configuration at path and overlays it on the built-in
// defaults. An empty path means the default location; a missing file there
// is not an error, every value has a default. An explicitly given path must
// exist.
func (l *Loader) Load(path string) (*domain.Config, error) {
	cfg := domain.DefaultConfig()

	explicit := path != ""
	if !explicit {
		defaultPath, err := domain.ConfigPath()
		if err != nil {
			// No home directory and no override. The data root may still
			// resolve through KEEP_HOME, so run on defaults.
			l.Logger.Warn("could not determine config file location, using defaults")
			return l.finish(cfg)
		}
		path = defaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return l.finish(cfg)
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
	}

	var file keepfile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "path", path)
	}

	if err := apply(cfg, &file); err != nil {
		return nil, zerr.With(err, "path", path)
	}
	return l.finish(cfg)
}

// finish resolves the data root so downstream consumers never see an empty
// DataDir.
func (l *Loader) finish(cfg *domain.Config) (*domain.Config, error) {
	if cfg.DataDir == "" {
		root, err := domain.DataRoot()
		if err != nil {
			return nil, err
		}
		cfg.DataDir = root
	}
	return cfg, nil
}

func apply(cfg *domain.Config, file *keepfile) error {
	if file.CacheSize != nil {
		if *file.CacheSize < 0 {
			return zerr.With(domain.ErrConfigParseFailed, "cache_size", *file.CacheSize)
		}
		cfg.TempCapacity = *file.CacheSize
	}
	if file.CacheLifetime != "" {
		lifetime, err := time.ParseDuration(file.CacheLifetime)
		if err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "cache_lifetime", file.CacheLifetime)
		}
		cfg.TempLifetime = lifetime
	}
	if file.LockTimeout != "" {
		timeout, err := time.ParseDuration(file.LockTimeout)
		if err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "lock_timeout", file.LockTimeout)
		}
		cfg.LockTimeout = timeout
	}
	if file.IndexURL != "" {
		cfg.IndexURL = file.IndexURL
	}
	if file.IncludePip != nil {
		cfg.IncludePip = *file.IncludePip
	}
	if file.UvPath != "" {
		cfg.UvPath = file.UvPath
	}
	if file.DataDir != "" {
		cfg.DataDir = file.DataDir
	}
	cfg.Telemetry = file.Telemetry
	return nil
}
