package domain

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"time"
)

// CatalogueSchemaVersion is the persisted document format version. A
// document with a different version is discarded and the catalogue starts
// empty rather than misparsing.
const CatalogueSchemaVersion = 1

// Pool identifies the catalogue partition an entry belongs to.
type Pool string

const (
	// PoolTemporary holds anonymous environments subject to capacity and
	// time eviction.
	PoolTemporary Pool = "temporary"

	// PoolApplication holds named, versioned environments that persist until
	// explicitly deleted.
	PoolApplication Pool = "application"
)

// Entry describes one built environment on disk. Entries are created and
// mutated only by catalogue operations.
type Entry struct {
	// Name is the stable entry id, env_<n>.
	Name string `json:"name"`

	Pool Pool `json:"pool"`

	// Fingerprint is the current primary matching key.
	Fingerprint string `json:"fingerprint"`

	// LockFingerprint is empty when the environment was built without a pin.
	LockFingerprint string `json:"lock_fingerprint,omitzero"`

	// RetainedFingerprints holds historical fingerprints this environment
	// still serves. Application pool only; cleared when the environment is
	// rebuilt or its version superseded.
	RetainedFingerprints []string `json:"retained_fingerprints,omitzero"`

	// Path is the environment directory, owned exclusively by this entry.
	Path string `json:"path"`

	// RuntimeVersion is the interpreter version the builder selected.
	RuntimeVersion string `json:"runtime_version,omitzero"`

	// InstalledModules is the builder-reported resolved package listing.
	InstalledModules []string `json:"installed_modules,omitzero"`

	// Owner, AppName and AppVersion are set for application entries only.
	Owner      string `json:"owner,omitzero"`
	AppName    string `json:"app_name,omitzero"`
	AppVersion string `json:"app_version,omitzero"`

	CreatedAt  time.Time `json:"created_at"`
	LastUsedAt time.Time `json:"last_used_at"`
}

// MatchesFingerprint reports whether fp is the entry's current or a retained
// fingerprint.
func (e *Entry) MatchesFingerprint(fp string) bool {
	return e.Fingerprint == fp || slices.Contains(e.RetainedFingerprints, fp)
}

// RetainFingerprint records the current fingerprint as historical and adopts
// fp as the new primary key. A no-op when fp is already current.
func (e *Entry) RetainFingerprint(fp string) {
	if e.Fingerprint == fp {
		return
	}
	if !slices.Contains(e.RetainedFingerprints, e.Fingerprint) {
		e.RetainedFingerprints = append(e.RetainedFingerprints, e.Fingerprint)
	}
	e.Fingerprint = fp
}

// Exists reports whether the entry's environment directory is still present.
// The filesystem is the source of truth; persisted records are revalidated
// through this check before reuse.
func (e *Entry) Exists() bool {
	info, err := os.Stat(e.Path)
	return err == nil && info.IsDir()
}

// Interpreter returns the path of the environment's interpreter binary.
func (e *Entry) Interpreter() string {
	return InterpreterPath(e.Path)
}

// EnvBinPath returns the executables directory inside an environment
// directory.
func EnvBinPath(envPath string) string {
	if runtime.GOOS == "windows" {
		return filepath.Join(envPath, "Scripts")
	}
	return filepath.Join(envPath, "bin")
}

// InterpreterPath returns the interpreter binary inside an environment
// directory.
func InterpreterPath(envPath string) string {
	if runtime.GOOS == "windows" {
		return filepath.Join(EnvBinPath(envPath), "python.exe")
	}
	return filepath.Join(EnvBinPath(envPath), "python")
}

// Catalogue is the persisted registry document.
type Catalogue struct {
	SchemaVersion int `json:"schema_version"`

	// EnvCounter is the next entry number to allocate. Never reused within a
	// document's lifetime so evicted names do not come back.
	EnvCounter int `json:"env_counter"`

	Entries map[string]*Entry `json:"entries"`
}

// NewCatalogue returns an empty document at the current schema version.
func NewCatalogue() *Catalogue {
	return &Catalogue{
		SchemaVersion: CatalogueSchemaVersion,
		EnvCounter:    1,
		Entries:       map[string]*Entry{},
	}
}

// NextName allocates the next entry name and advances the counter.
func (c *Catalogue) NextName() string {
	name := fmt.Sprintf("env_%d", c.EnvCounter)
	c.EnvCounter++
	return name
}

// FindTemporary returns the temporary entry matching fp, or nil.
func (c *Catalogue) FindTemporary(fp string) *Entry {
	for _, entry := range c.Entries {
		if entry.Pool == PoolTemporary && entry.MatchesFingerprint(fp) {
			return entry
		}
	}
	return nil
}

// FindApplication returns the current entry for (owner, name), or nil.
func (c *Catalogue) FindApplication(owner, name string) *Entry {
	for _, entry := range c.Entries {
		if entry.Pool == PoolApplication && entry.Owner == owner && entry.AppName == name {
			return entry
		}
	}
	return nil
}

// Temporaries returns the temporary entries in unspecified order.
func (c *Catalogue) Temporaries() []*Entry {
	var entries []*Entry
	for _, entry := range c.Entries {
		if entry.Pool == PoolTemporary {
			entries = append(entries, entry)
		}
	}
	return entries
}

// Remove drops the entry named name. It does not touch the filesystem.
func (c *Catalogue) Remove(name string) {
	delete(c.Entries, name)
}
