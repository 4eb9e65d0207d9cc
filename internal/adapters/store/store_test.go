package store_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/keep/internal/adapters/store"
	"go.trai.ch/keep/internal/core/domain"
	"go.trai.ch/keep/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func newStore(t *testing.T, path string) (*store.Store, *mocks.MockLogger) {
	t.Helper()
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	return store.NewStore(path, mockLogger), mockLogger
}

func TestStore_RoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), domain.CatalogueFileName)
	s, _ := newStore(t, path)

	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	doc := domain.NewCatalogue()
	doc.EnvCounter = 3
	doc.Entries["env_1"] = &domain.Entry{
		Name:        "env_1",
		Pool:        domain.PoolTemporary,
		Fingerprint: "aaaa",
		Path:        "/data/envs/env_1",
		CreatedAt:   created,
		LastUsedAt:  created.Add(time.Hour),
	}
	doc.Entries["env_2"] = &domain.Entry{
		Name:                 "env_2",
		Pool:                 domain.PoolApplication,
		Fingerprint:          "bbbb",
		LockFingerprint:      "cccc",
		RetainedFingerprints: []string{"dddd"},
		Path:                 "/data/envs/env_2",
		RuntimeVersion:       "3.12.4",
		InstalledModules:     []string{"requests==2.32.3"},
		Owner:                "acme",
		AppName:              "tool",
		AppVersion:           "1.2.0",
		CreatedAt:            created,
		LastUsedAt:           created,
	}

	require.NoError(t, s.Save(doc))

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, doc.SchemaVersion, got.SchemaVersion)
	assert.Equal(t, doc.EnvCounter, got.EnvCounter)
	assert.Equal(t, doc.Entries, got.Entries)
}

func TestStore_MissingFileYieldsEmptyCatalogue(t *testing.T) {
	t.Parallel()

	s, _ := newStore(t, filepath.Join(t.TempDir(), domain.CatalogueFileName))

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, domain.CatalogueSchemaVersion, got.SchemaVersion)
	assert.Equal(t, 1, got.EnvCounter)
	assert.Empty(t, got.Entries)
}

func TestStore_CorruptFileYieldsEmptyCatalogue(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), domain.CatalogueFileName)
	require.NoError(t, os.WriteFile(path, []byte("{ not json"), domain.FilePerm))

	s, mockLogger := newStore(t, path)
	mockLogger.EXPECT().Warn(gomock.Any()).Times(1)

	got, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, got.Entries)
	assert.Equal(t, 1, got.EnvCounter)
}

func TestStore_UnsupportedSchemaYieldsEmptyCatalogue(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), domain.CatalogueFileName)
	data, err := json.Marshal(map[string]any{"schema_version": 99, "env_counter": 7})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, domain.FilePerm))

	s, mockLogger := newStore(t, path)
	mockLogger.EXPECT().Warn(gomock.Any()).Times(1)

	got, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, got.Entries)
	assert.Equal(t, 1, got.EnvCounter, "counter from an incompatible document must not leak")
}

func TestStore_SaveLeavesNoTemporaryFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s, _ := newStore(t, filepath.Join(dir, domain.CatalogueFileName))

	require.NoError(t, s.Save(domain.NewCatalogue()))
	require.NoError(t, s.Save(domain.NewCatalogue()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.CatalogueFileName, entries[0].Name())
}

func TestStore_SaveCreatesParentDirectory(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "keep", domain.CatalogueFileName)
	s, _ := newStore(t, path)

	require.NoError(t, s.Save(domain.NewCatalogue()))
	assert.FileExists(t, path)
}

func TestStore_SaveOverwritesPreviousDocument(t *testing.T) {
	t.Parallel()

	s, _ := newStore(t, filepath.Join(t.TempDir(), domain.CatalogueFileName))

	first := domain.NewCatalogue()
	first.EnvCounter = 2
	require.NoError(t, s.Save(first))

	second := domain.NewCatalogue()
	second.EnvCounter = 9
	require.NoError(t, s.Save(second))

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, 9, got.EnvCounter)
}
