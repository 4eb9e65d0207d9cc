// Package flock guards catalogue mutations with an exclusive advisory file
// lock that works across process boundaries.
package flock

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.trai.ch/keep/internal/core/domain"
	"go.trai.ch/zerr"
)

// retryInterval is the polling cadence while another holder has the lock.
const retryInterval = 50 * time.Millisecond

// Locker implements ports.Locker.
type Locker struct{}

// NewLocker creates a new Locker.
func NewLocker() *Locker {
	return &Locker{}
}

// Acquire takes the lock scoped to path, polling until the timeout elapses.
// The returned release function may be called more than once; only the first
// call releases.
func (l *Locker) Acquire(ctx context.Context, path string, timeout time.Duration) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return nil, zerr.Wrap(err, "failed to create lock directory")
	}

	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(retryInterval)
	defer ticker.Stop()

	for {
		handle, acquired, err := tryLock(path)
		if err != nil {
			return nil, err
		}
		if acquired {
			var once sync.Once
			return func() {
				once.Do(func() { release(handle, path) })
			}, nil
		}

		if time.Now().After(deadline) {
			lockErr := zerr.With(domain.ErrCatalogueLocked, "path", path)
			return nil, zerr.With(lockErr, "timeout", timeout.String())
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
