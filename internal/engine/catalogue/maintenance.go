package catalogue

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"go.trai.ch/keep/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// PruneReport lists what a maintenance pass removed.
type PruneReport struct {
	// Expired are temporary entries whose last use exceeded the lifetime.
	Expired []string
	// Evicted are temporary entries removed because the pool exceeded its
	// capacity, which happens when the configured size was lowered.
	Evicted []string
	// Vanished are entries whose directory no longer existed on disk.
	Vanished []string
	// Orphans are directories in the environment tree no entry referenced.
	Orphans []string
}

// Empty reports whether the pass removed nothing.
func (r *PruneReport) Empty() bool {
	return len(r.Expired) == 0 && len(r.Evicted) == 0 && len(r.Vanished) == 0 && len(r.Orphans) == 0
}

// List returns the catalogued entries ordered by creation time. It reads
// without taking the cross-process lock: writes replace the document
// atomically, so a concurrent mutation yields either the previous or the new
// document, both valid.
func (c *Catalogue) List(_ context.Context) ([]*domain.Entry, error) {
	state, err := c.store.Load()
	if err != nil {
		return nil, err
	}

	entries := make([]*domain.Entry, 0, len(state.Entries))
	for _, entry := range state.Entries {
		entries = append(entries, entry)
	}
	slices.SortFunc(entries, func(a, b *domain.Entry) int {
		if n := a.CreatedAt.Compare(b.CreatedAt); n != 0 {
			return n
		}
		return strings.Compare(a.Name, b.Name)
	})
	return entries, nil
}

// Delete removes the named environment, record and directory both.
func (c *Catalogue) Delete(ctx context.Context, name string) error {
	ctx, span := c.tracer.Start(ctx, "Delete Environment")
	defer span.End()
	span.SetAttribute("keep.name", name)

	err := c.withCatalogue(ctx, func(state *domain.Catalogue) (bool, error) {
		entry, ok := state.Entries[name]
		if !ok {
			return false, zerr.With(domain.ErrEntryNotFound, "name", name)
		}
		span.SetAttribute("keep.pool", string(entry.Pool))
		c.removeEntryDir(entry)
		state.Remove(name)
		return true, nil
	})
	if err != nil {
		span.RecordError(err)
	}
	return err
}

// Prune runs a maintenance pass: it expires stale temporary entries, drops
// records whose directory vanished, and removes orphaned directories left
// behind by aborted builds.
func (c *Catalogue) Prune(ctx context.Context) (*PruneReport, error) {
	ctx, span := c.tracer.Start(ctx, "Prune Catalogue")
	defer span.End()

	report := &PruneReport{}
	err := c.withCatalogue(ctx, func(state *domain.Catalogue) (bool, error) {
		report.Expired = c.expireTemporaries(state)
		report.Evicted = c.enforceCapacity(state)

		for _, entry := range sortedEntries(state) {
			if !entry.Exists() {
				state.Remove(entry.Name)
				report.Vanished = append(report.Vanished, entry.Name)
			}
		}

		orphans, err := c.sweepOrphans(ctx, state)
		if err != nil {
			return false, err
		}
		report.Orphans = orphans

		return len(report.Expired)+len(report.Evicted)+len(report.Vanished) > 0, nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return report, nil
}

// Purge deletes every environment and resets the registry to an empty
// document. It returns the number of entries removed.
func (c *Catalogue) Purge(ctx context.Context) (int, error) {
	removed := 0
	err := c.withCatalogue(ctx, func(state *domain.Catalogue) (bool, error) {
		removed = len(state.Entries)
		if err := os.RemoveAll(domain.EnvsPath(c.root)); err != nil {
			c.logger.Warn(fmt.Sprintf("failed to remove environment tree: %v", err))
		}
		*state = *domain.NewCatalogue()
		return true, nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// evictTemporaries applies the expiry and capacity policies to the temporary
// pool. Called after every successful temporary insertion.
func (c *Catalogue) evictTemporaries(state *domain.Catalogue) {
	c.expireTemporaries(state)
	c.enforceCapacity(state)
}

// expireTemporaries removes temporary entries whose last use is older than
// the configured lifetime. A non-positive lifetime disables expiry.
func (c *Catalogue) expireTemporaries(state *domain.Catalogue) []string {
	if c.cfg.TempLifetime <= 0 {
		return nil
	}
	cutoff := c.now().Add(-c.cfg.TempLifetime)

	var removed []string
	for _, entry := range state.Temporaries() {
		if entry.LastUsedAt.Before(cutoff) {
			c.removeEntryDir(entry)
			state.Remove(entry.Name)
			removed = append(removed, entry.Name)
		}
	}
	if len(removed) > 0 {
		slices.Sort(removed)
		c.logger.Info(fmt.Sprintf("expired %d temporary environments", len(removed)))
	}
	return removed
}

// enforceCapacity evicts the least recently used temporary entries until the
// pool holds at most the configured capacity. Ties on last use fall back to
// the oldest creation time. A non-positive capacity disables the policy.
func (c *Catalogue) enforceCapacity(state *domain.Catalogue) []string {
	if c.cfg.TempCapacity <= 0 {
		return nil
	}
	entries := state.Temporaries()
	excess := len(entries) - c.cfg.TempCapacity
	if excess <= 0 {
		return nil
	}

	slices.SortFunc(entries, func(a, b *domain.Entry) int {
		if n := a.LastUsedAt.Compare(b.LastUsedAt); n != 0 {
			return n
		}
		return a.CreatedAt.Compare(b.CreatedAt)
	})

	removed := make([]string, 0, excess)
	for _, entry := range entries[:excess] {
		c.removeEntryDir(entry)
		state.Remove(entry.Name)
		removed = append(removed, entry.Name)
	}
	c.logger.Info(fmt.Sprintf("evicted %d temporary environments over capacity", len(removed)))
	return removed
}

// removeEntryDir removes an environment directory. Failure is downgraded to
// a warning and the record is dropped regardless, so the registry never holds
// on to a path it has already forgotten; a later maintenance pass reclaims
// the directory.
func (c *Catalogue) removeEntryDir(entry *domain.Entry) {
	if err := os.RemoveAll(entry.Path); err != nil {
		c.logger.Warn(fmt.Sprintf("failed to remove environment directory %s: %v", entry.Path, err))
	}
}

// sweepOrphans removes directories in the environment tree that no entry
// references. Removals run in parallel; a failed removal is a warning and is
// retried by the next pass.
func (c *Catalogue) sweepOrphans(ctx context.Context, state *domain.Catalogue) ([]string, error) {
	envsDir := domain.EnvsPath(c.root)
	dirEntries, err := os.ReadDir(envsDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.Wrap(err, "failed to read environment tree")
	}

	referenced := make(map[string]bool, len(state.Entries))
	for _, entry := range state.Entries {
		referenced[filepath.Base(entry.Path)] = true
	}

	var orphans []string
	for _, dirEntry := range dirEntries {
		if dirEntry.IsDir() && !referenced[dirEntry.Name()] {
			orphans = append(orphans, dirEntry.Name())
		}
	}
	if len(orphans) == 0 {
		return nil, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for _, name := range orphans {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			path := filepath.Join(envsDir, name)
			if err := os.RemoveAll(path); err != nil {
				c.logger.Warn(fmt.Sprintf("failed to remove orphaned directory %s: %v", path, err))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	slices.Sort(orphans)
	return orphans, nil
}

func sortedEntries(state *domain.Catalogue) []*domain.Entry {
	entries := make([]*domain.Entry, 0, len(state.Entries))
	for _, entry := range state.Entries {
		entries = append(entries, entry)
	}
	slices.SortFunc(entries, func(a, b *domain.Entry) int {
		return strings.Compare(a.Name, b.Name)
	})
	return entries
}
