package scriptfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/keep/internal/core/domain"
	"go.trai.ch/zerr"
)

// cachedSpec is the persisted form of a parsed specification. Entries are
// keyed by the script's content hash; an edited script hashes to a new key.
type cachedSpec struct {
	RuntimeConstraint string   `json:"runtime_constraint,omitzero"`
	Dependencies      []string `json:"dependencies,omitzero"`
	Owner             string   `json:"owner,omitzero"`
	AppName           string   `json:"app_name,omitzero"`
	AppVersion        string   `json:"app_version,omitzero"`
}

// Cache stores parse results as one JSON file per content hash.
type Cache struct {
	dir string
}

// NewCache creates a Cache rooted at dir. The directory is created lazily on
// the first write.
func NewCache(dir string) *Cache {
	return &Cache{dir: dir}
}

// Get returns the cached specification for key, or nil on a miss.
func (c *Cache) Get(key uint64) (*domain.Spec, error) {
	data, err := os.ReadFile(c.entryPath(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.Wrap(err, domain.ErrSpecCacheReadFailed.Error())
	}

	var cached cachedSpec
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, zerr.Wrap(err, domain.ErrSpecCacheReadFailed.Error())
	}

	var app *domain.AppIdentity
	if cached.Owner != "" || cached.AppName != "" {
		app = &domain.AppIdentity{
			Owner:   cached.Owner,
			Name:    cached.AppName,
			Version: cached.AppVersion,
		}
	}

	// Rebuild through the validating constructor; a corrupt entry surfaces
	// as a read error, not as an invalid specification.
	spec, err := domain.NewSpec(cached.RuntimeConstraint, cached.Dependencies, "", app)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrSpecCacheReadFailed.Error())
	}
	return spec, nil
}

// Put stores the specification under key with an atomic write.
func (c *Cache) Put(key uint64, spec *domain.Spec) error {
	if err := os.MkdirAll(c.dir, domain.DirPerm); err != nil {
		return zerr.Wrap(err, domain.ErrSpecCacheWriteFailed.Error())
	}

	cached := cachedSpec{
		RuntimeConstraint: spec.RuntimeConstraint,
		Dependencies:      spec.Dependencies,
	}
	if spec.App != nil {
		cached.Owner = spec.App.Owner
		cached.AppName = spec.App.Name
		cached.AppVersion = spec.App.Version
	}

	data, err := json.Marshal(cached)
	if err != nil {
		return zerr.Wrap(err, domain.ErrSpecCacheWriteFailed.Error())
	}

	tmp, err := os.CreateTemp(c.dir, "spec-*.json")
	if err != nil {
		return zerr.Wrap(err, domain.ErrSpecCacheWriteFailed.Error())
	}
	tmpName := tmp.Name()
	defer func() {
		if _, statErr := os.Stat(tmpName); statErr == nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return zerr.Wrap(err, domain.ErrSpecCacheWriteFailed.Error())
	}
	if err := tmp.Close(); err != nil {
		return zerr.Wrap(err, domain.ErrSpecCacheWriteFailed.Error())
	}
	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		return zerr.Wrap(err, domain.ErrSpecCacheWriteFailed.Error())
	}
	if err := os.Rename(tmpName, c.entryPath(key)); err != nil {
		return zerr.Wrap(err, domain.ErrSpecCacheWriteFailed.Error())
	}
	return nil
}

func (c *Cache) entryPath(key uint64) string {
	return filepath.Join(c.dir, fmt.Sprintf("%016x.json", key))
}
