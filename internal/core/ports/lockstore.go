package ports

// LockStore reads and writes the pinned dependency file kept adjacent to a
// script. The stored fingerprint ties the lock to the specification it was
// resolved from so a stale lock is detectable.
//
//go:generate mockgen -source=lockstore.go -destination=mocks/mock_lockstore.go -package=mocks
type LockStore interface {
	// Read returns the lock contents and the fingerprint they were resolved
	// for. A missing lock file returns empty contents and no error.
	Read(scriptPath string) (contents string, fingerprint string, err error)

	// Write stores the lock contents for the given fingerprint.
	Write(scriptPath, contents, fingerprint string) error
}
