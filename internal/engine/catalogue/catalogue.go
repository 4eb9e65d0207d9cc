package catalogue

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/keep/internal/core/domain"
	"go.trai.ch/keep/internal/core/ports"
	"go.trai.ch/zerr"
)

// Outcome describes how a resolution request was satisfied.
type Outcome string

const (
	// OutcomeBuilt indicates a new environment was materialized.
	OutcomeBuilt Outcome = "built"
	// OutcomeReused indicates an existing environment satisfied the request.
	OutcomeReused Outcome = "reused"
	// OutcomeRebuilt indicates an application environment was replaced.
	OutcomeRebuilt Outcome = "rebuilt"
)

// Result is the outcome of FindOrCreate.
type Result struct {
	Entry   *domain.Entry
	Outcome Outcome
}

// Catalogue owns matching, insertion, eviction and persistence of built
// environments. It is safe for use across process boundaries: every mutation
// runs as a read-modify-write critical section under an exclusive advisory
// file lock. Within one process, callers route operations through a single
// owner rather than sharing a Catalogue between goroutines.
type Catalogue struct {
	store    ports.CatalogueStore
	locker   ports.Locker
	builder  ports.Builder
	renderer ports.Renderer
	logger   ports.Logger
	tracer   ports.Tracer

	cfg  *domain.Config
	root string
	now  func() time.Time
}

// NewCatalogue creates a new Catalogue rooted at root, the data directory
// that holds the registry document and the environment tree.
func NewCatalogue(
	store ports.CatalogueStore,
	locker ports.Locker,
	builder ports.Builder,
	renderer ports.Renderer,
	logger ports.Logger,
	tracer ports.Tracer,
	cfg *domain.Config,
	root string,
) *Catalogue {
	return &Catalogue{
		store:    store,
		locker:   locker,
		builder:  builder,
		renderer: renderer,
		logger:   logger,
		tracer:   tracer,
		cfg:      cfg,
		root:     root,
		now:      time.Now,
	}
}

// withCatalogue runs fn as one critical section: acquire the cross-process
// lock, load the document, mutate, persist, release. fn reports whether it
// mutated the document; the document is only written back when it did.
func (c *Catalogue) withCatalogue(ctx context.Context, fn func(state *domain.Catalogue) (bool, error)) error {
	if err := os.MkdirAll(c.root, domain.DirPerm); err != nil {
		return zerr.Wrap(err, "failed to create data directory")
	}

	release, err := c.locker.Acquire(ctx, domain.CatalogueLockPath(c.root), c.cfg.LockTimeout)
	if err != nil {
		return err
	}
	defer release()

	state, err := c.store.Load()
	if err != nil {
		return err
	}

	dirty, err := fn(state)
	if err != nil {
		return err
	}
	if dirty {
		return c.store.Save(state)
	}
	return nil
}

// FindOrCreate returns an environment satisfying spec, building one when no
// catalogued environment can be reused. The whole check-then-build-then-record
// sequence holds the catalogue lock, so two concurrent callers requesting the
// same fingerprint trigger exactly one build and receive the same path.
func (c *Catalogue) FindOrCreate(ctx context.Context, spec *domain.Spec) (*Result, error) {
	ctx, span := c.tracer.Start(ctx, "Resolve Environment")
	defer span.End()

	fp := spec.Fingerprint()
	span.SetAttribute("keep.fingerprint", fp)

	var res *Result
	err := c.withCatalogue(ctx, func(state *domain.Catalogue) (bool, error) {
		var (
			dirty bool
			err   error
		)
		if spec.IsApplication() {
			res, dirty, err = c.resolveApplication(ctx, state, spec, fp)
		} else {
			res, dirty, err = c.resolveTemporary(ctx, state, spec, fp)
		}
		return dirty, err
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttribute("keep.outcome", string(res.Outcome))
	return res, nil
}

func (c *Catalogue) resolveTemporary(
	ctx context.Context,
	state *domain.Catalogue,
	spec *domain.Spec,
	fp string,
) (*Result, bool, error) {
	if entry := state.FindTemporary(fp); entry != nil {
		if entry.Exists() {
			entry.LastUsedAt = c.now()
			return &Result{Entry: entry, Outcome: OutcomeReused}, true, nil
		}
		// The directory vanished behind our back. Drop the record so the
		// rebuild below takes a fresh name.
		state.Remove(entry.Name)
	}

	built, err := c.buildEnvironment(ctx, state, spec, domain.PoolTemporary, fp)
	if err != nil {
		return nil, false, err
	}

	state.Entries[built.Name] = built
	c.evictTemporaries(state)
	return &Result{Entry: built, Outcome: OutcomeBuilt}, true, nil
}

// resolveApplication applies the version and lock rules for named
// environments. Application identity carries a total order by version: a lock
// change is tolerated silently only when moving forward in version or while
// both versions are still pre-releases. Refusals are never papered over by a
// rebuild.
func (c *Catalogue) resolveApplication(
	ctx context.Context,
	state *domain.Catalogue,
	spec *domain.Spec,
	fp string,
) (*Result, bool, error) {
	if !spec.HasLock() {
		err := zerr.With(domain.ErrLockRequired, "owner", spec.App.Owner)
		err = zerr.With(err, "name", spec.App.Name)
		return nil, false, err
	}

	lockFP := spec.LockFingerprint()
	entry := state.FindApplication(spec.App.Owner, spec.App.Name)
	if entry == nil {
		built, err := c.buildEnvironment(ctx, state, spec, domain.PoolApplication, fp)
		if err != nil {
			return nil, false, err
		}
		state.Entries[built.Name] = built
		return &Result{Entry: built, Outcome: OutcomeBuilt}, true, nil
	}

	cmp := domain.CompareVersions(spec.App.Version, entry.AppVersion)
	if cmp < 0 {
		err := zerr.With(domain.ErrStaleApplicationVersion, "owner", spec.App.Owner)
		err = zerr.With(err, "name", spec.App.Name)
		err = zerr.With(err, "requested_version", spec.App.Version)
		err = zerr.With(err, "catalogued_version", entry.AppVersion)
		return nil, false, err
	}

	if lockFP == entry.LockFingerprint {
		if !entry.Exists() {
			return c.replaceApplication(ctx, state, spec, entry, fp)
		}

		dirty := false
		if entry.Fingerprint != fp {
			entry.RetainFingerprint(fp)
			dirty = true
		}
		if cmp > 0 {
			// Superseded: pins of earlier versions are no longer reachable.
			entry.AppVersion = spec.App.Version
			entry.RetainedFingerprints = nil
			dirty = true
		}
		if dirty {
			entry.LastUsedAt = c.now()
		}
		return &Result{Entry: entry, Outcome: OutcomeReused}, dirty, nil
	}

	if cmp == 0 && !(domain.IsPrerelease(entry.AppVersion) && domain.IsPrerelease(spec.App.Version)) {
		err := zerr.With(domain.ErrLockMismatch, "owner", spec.App.Owner)
		err = zerr.With(err, "name", spec.App.Name)
		err = zerr.With(err, "version", spec.App.Version)
		err = zerr.With(err, "catalogued_lock_fingerprint", entry.LockFingerprint)
		err = zerr.With(err, "requested_lock_fingerprint", lockFP)
		return nil, false, err
	}

	return c.replaceApplication(ctx, state, spec, entry, fp)
}

// replaceApplication builds a fresh environment under a new name and swaps
// it into the identity held by old. The build happens before any record is
// touched, so an aborted build leaves the previous environment intact and at
// most one orphaned directory behind.
func (c *Catalogue) replaceApplication(
	ctx context.Context,
	state *domain.Catalogue,
	spec *domain.Spec,
	old *domain.Entry,
	fp string,
) (*Result, bool, error) {
	built, err := c.buildEnvironment(ctx, state, spec, domain.PoolApplication, fp)
	if err != nil {
		return nil, false, err
	}

	c.removeEntryDir(old)
	state.Remove(old.Name)
	state.Entries[built.Name] = built
	return &Result{Entry: built, Outcome: OutcomeRebuilt}, true, nil
}

// buildEnvironment materializes a new environment and returns its entry. The
// entry is not inserted here; callers insert only after deciding where it
// goes, and never before the builder reported success.
func (c *Catalogue) buildEnvironment(
	ctx context.Context,
	state *domain.Catalogue,
	spec *domain.Spec,
	pool domain.Pool,
	fp string,
) (*domain.Entry, error) {
	envsDir := domain.EnvsPath(c.root)
	if err := os.MkdirAll(envsDir, domain.DirPerm); err != nil {
		return nil, zerr.Wrap(err, "failed to create environments directory")
	}

	name := state.NextName()
	target := filepath.Join(envsDir, name)

	c.renderer.OnBuildStart(name, fp, c.now())
	result, err := c.builder.Build(ctx, ports.BuildRequest{
		TargetPath:        target,
		RuntimeConstraint: spec.RuntimeConstraint,
		Dependencies:      spec.Dependencies,
		LockContents:      spec.LockContents,
	})
	c.renderer.OnBuildComplete(c.now(), err)
	if err != nil {
		wrapped := zerr.Wrap(err, domain.ErrBuildFailure.Error())
		return nil, zerr.With(wrapped, "fingerprint", fp)
	}

	now := c.now()
	entry := &domain.Entry{
		Name:             name,
		Pool:             pool,
		Fingerprint:      fp,
		LockFingerprint:  spec.LockFingerprint(),
		Path:             target,
		RuntimeVersion:   result.RuntimeVersion,
		InstalledModules: result.InstalledModules,
		CreatedAt:        now,
		LastUsedAt:       now,
	}
	if spec.IsApplication() {
		entry.Owner = spec.App.Owner
		entry.AppName = spec.App.Name
		entry.AppVersion = spec.App.Version
	}
	return entry, nil
}
