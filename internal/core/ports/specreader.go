package ports

import "go.trai.ch/keep/internal/core/domain"

// SpecReader parses a script's inline metadata block into a specification.
//
//go:generate mockgen -source=specreader.go -destination=mocks/mock_specreader.go -package=mocks
type SpecReader interface {
	// Read parses the script at path. Scripts without a metadata block fail
	// with domain.ErrMetadataNotFound; malformed blocks fail with
	// domain.ErrMalformedSpec.
	Read(path string) (*domain.Spec, error)
}
