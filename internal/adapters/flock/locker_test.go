package flock_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.trai.ch/keep/internal/adapters/flock"
	"go.trai.ch/keep/internal/core/domain"
	"go.trai.ch/zerr"
)

func lockPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "catalogue.lock")
}

func TestLocker_AcquireAndRelease(t *testing.T) {
	t.Parallel()

	locker := flock.NewLocker()
	path := lockPath(t)

	release, err := locker.Acquire(t.Context(), path, time.Second)
	require.NoError(t, err)
	release()

	release, err = locker.Acquire(t.Context(), path, time.Second)
	require.NoError(t, err)
	release()
}

func TestLocker_ExcludesSecondHolder(t *testing.T) {
	t.Parallel()

	locker := flock.NewLocker()
	path := lockPath(t)

	release, err := locker.Acquire(t.Context(), path, time.Second)
	require.NoError(t, err)
	defer release()

	_, err = locker.Acquire(t.Context(), path, 150*time.Millisecond)
	require.ErrorIs(t, err, domain.ErrCatalogueLocked)

	zErr, ok := err.(*zerr.Error)
	require.True(t, ok)
	require.Equal(t, path, zErr.Metadata()["path"])
	require.Equal(t, "150ms", zErr.Metadata()["timeout"])
}

func TestLocker_WaitsForRelease(t *testing.T) {
	t.Parallel()

	locker := flock.NewLocker()
	path := lockPath(t)

	release, err := locker.Acquire(t.Context(), path, time.Second)
	require.NoError(t, err)

	go func() {
		time.Sleep(150 * time.Millisecond)
		release()
	}()

	second, err := locker.Acquire(t.Context(), path, 5*time.Second)
	require.NoError(t, err)
	second()
}

func TestLocker_ReleaseIsIdempotent(t *testing.T) {
	t.Parallel()

	locker := flock.NewLocker()
	path := lockPath(t)

	release, err := locker.Acquire(t.Context(), path, time.Second)
	require.NoError(t, err)
	release()
	release()

	again, err := locker.Acquire(t.Context(), path, time.Second)
	require.NoError(t, err)
	again()
}

func TestLocker_ContextCancellation(t *testing.T) {
	t.Parallel()

	locker := flock.NewLocker()
	path := lockPath(t)

	release, err := locker.Acquire(t.Context(), path, time.Second)
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithTimeout(t.Context(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err = locker.Acquire(ctx, path, time.Minute)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Less(t, time.Since(start), 5*time.Second)
}

func TestLocker_CreatesLockDirectory(t *testing.T) {
	t.Parallel()

	locker := flock.NewLocker()
	path := filepath.Join(t.TempDir(), "data", "keep", "catalogue.lock")

	release, err := locker.Acquire(t.Context(), path, time.Second)
	require.NoError(t, err)
	release()
}
