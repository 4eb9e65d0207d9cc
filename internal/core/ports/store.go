package ports

import "go.trai.ch/keep/internal/core/domain"

// CatalogueStore persists the registry document.
//
//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type CatalogueStore interface {
	// Load reads the current document. A missing, unparsable or
	// schema-incompatible file yields a fresh empty document, never an
	// error of the "cache corrupt" kind; the filesystem is the source of
	// truth and entries are revalidated before reuse.
	Load() (*domain.Catalogue, error)

	// Save writes the document atomically.
	Save(catalogue *domain.Catalogue) error
}
