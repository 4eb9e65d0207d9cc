//go:build unix

package flock

import (
	"errors"
	"os"

	"go.trai.ch/keep/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/sys/unix"
)

type lockHandle = *os.File

// tryLock opens the lock file and attempts a non-blocking exclusive flock.
// The kernel drops the lock when the descriptor closes, including on a
// crash, so an orphaned lock file never wedges the catalogue.
func tryLock(path string) (lockHandle, bool, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, domain.PrivateFilePerm)
	if err != nil {
		return nil, false, zerr.Wrap(err, "failed to open lock file")
	}

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		_ = f.Close()
		if errors.Is(err, unix.EWOULDBLOCK) {
			return nil, false, nil
		}
		return nil, false, zerr.Wrap(err, "failed to acquire file lock")
	}

	return f, true, nil
}

func release(handle lockHandle, _ string) {
	_ = unix.Flock(int(handle.Fd()), unix.LOCK_UN)
	_ = handle.Close()
}
