// Package lockfile stores pinned dependency sets next to the scripts they
// belong to.
package lockfile

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/keep/internal/core/domain"
	"go.trai.ch/zerr"
)

// headerPrefix starts the first line of every lock file. The fingerprint
// behind it names the specification the lock was resolved from.
const headerPrefix = "# keep:fingerprint "

// Store implements ports.LockStore with one file per script, named by
// appending the lock suffix to the script path.
type Store struct{}

// NewStore creates a new Store.
func NewStore() *Store {
	return &Store{}
}

// Read returns the lock contents and the fingerprint they were resolved for.
// A missing file is not an error; a file without a fingerprint header yields
// its full contents and an empty fingerprint.
func (s *Store) Read(scriptPath string) (string, string, error) {
	path := domain.ScriptLockPath(scriptPath)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", "", nil
		}
		return "", "", zerr.With(zerr.Wrap(err, domain.ErrLockFileReadFailed.Error()), "path", path)
	}

	contents := string(data)
	header, rest, found := strings.Cut(contents, "\n")
	if !found || !strings.HasPrefix(header, headerPrefix) {
		return contents, "", nil
	}
	return rest, strings.TrimSpace(strings.TrimPrefix(header, headerPrefix)), nil
}

// Write stores the lock contents for the given fingerprint atomically.
func (s *Store) Write(scriptPath, contents, fingerprint string) error {
	path := domain.ScriptLockPath(scriptPath)
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, ".keep-lock-*")
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrLockFileWriteFailed.Error()), "path", path)
	}
	tmpName := tmp.Name()
	defer func() {
		if _, statErr := os.Stat(tmpName); statErr == nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.WriteString(headerPrefix + fingerprint + "\n" + contents); err != nil {
		_ = tmp.Close()
		return zerr.With(zerr.Wrap(err, domain.ErrLockFileWriteFailed.Error()), "path", path)
	}
	if err := tmp.Close(); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrLockFileWriteFailed.Error()), "path", path)
	}
	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrLockFileWriteFailed.Error()), "path", path)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrLockFileWriteFailed.Error()), "path", path)
	}
	return nil
}
