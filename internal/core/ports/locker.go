package ports

import (
	"context"
	"time"
)

// Locker serializes catalogue mutations across process boundaries with an
// exclusive advisory file lock.
//
//go:generate mockgen -source=locker.go -destination=mocks/mock_locker.go -package=mocks
type Locker interface {
	// Acquire takes the lock scoped to path, blocking up to timeout. The
	// returned release function is safe to call exactly once. Acquisition
	// that exceeds the timeout fails with domain.ErrCatalogueLocked.
	Acquire(ctx context.Context, path string, timeout time.Duration) (release func(), err error)
}
