// Package store persists the catalogue document as a single JSON file.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/keep/internal/core/domain"
	"go.trai.ch/keep/internal/core/ports"
	"go.trai.ch/zerr"
)

// Store implements ports.CatalogueStore backed by one file per catalogue
// root. The document is a cache, not a source of truth: a missing or broken
// file degrades to an empty registry and entries are revalidated against the
// filesystem before reuse.
type Store struct {
	path   string
	logger ports.Logger
}

// NewStore creates a store writing the document at path.
func NewStore(path string, logger ports.Logger) *Store {
	return &Store{path: path, logger: logger}
}

// Load reads the current document. Unparsable or schema-incompatible
// documents are discarded with a warning rather than failing the caller.
func (s *Store) Load() (*domain.Catalogue, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.NewCatalogue(), nil
		}
		return nil, zerr.Wrap(err, domain.ErrCatalogueReadFailed.Error())
	}

	var doc domain.Catalogue
	if err := json.Unmarshal(data, &doc); err != nil {
		s.logger.Warn("catalogue file is unreadable, starting from an empty registry")
		return domain.NewCatalogue(), nil
	}
	if doc.SchemaVersion != domain.CatalogueSchemaVersion {
		s.logger.Warn(fmt.Sprintf("catalogue schema version %d is not supported, starting from an empty registry", doc.SchemaVersion))
		return domain.NewCatalogue(), nil
	}

	if doc.Entries == nil {
		doc.Entries = map[string]*domain.Entry{}
	}
	if doc.EnvCounter < 1 {
		doc.EnvCounter = 1
	}
	return &doc, nil
}

// Save writes the document atomically: serialize to a temporary file in the
// same directory, then rename over the previous one, so a crash mid-write
// never corrupts the last valid state.
func (s *Store) Save(catalogue *domain.Catalogue) error {
	data, err := json.MarshalIndent(catalogue, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrCatalogueMarshalFailed.Error())
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.Wrap(err, domain.ErrCatalogueWriteFailed.Error())
	}

	tmpFile, err := os.CreateTemp(dir, "catalogue-*.json")
	if err != nil {
		return zerr.Wrap(err, domain.ErrCatalogueWriteFailed.Error())
	}
	tmpName := tmpFile.Name()

	// Clean up the temp file on any failure past this point.
	defer func() {
		if _, err := os.Stat(tmpName); err == nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return zerr.Wrap(err, domain.ErrCatalogueWriteFailed.Error())
	}
	if err := tmpFile.Close(); err != nil {
		return zerr.Wrap(err, domain.ErrCatalogueWriteFailed.Error())
	}
	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		return zerr.Wrap(err, domain.ErrCatalogueWriteFailed.Error())
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return zerr.Wrap(err, domain.ErrCatalogueWriteFailed.Error())
	}
	return nil
}
