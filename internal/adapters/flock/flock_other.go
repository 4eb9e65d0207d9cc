//go:build !unix

package flock

import (
	"errors"
	"io/fs"
	"os"

	"go.trai.ch/keep/internal/core/domain"
	"go.trai.ch/zerr"
)

type lockHandle = struct{}

// tryLock creates the lock file exclusively; the file's existence is the
// lock. Unlike flock, a crash leaves the file behind and the lock times out
// for other processes until the file is removed.
func tryLock(path string) (lockHandle, bool, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, domain.PrivateFilePerm)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return lockHandle{}, false, nil
		}
		return lockHandle{}, false, zerr.Wrap(err, "failed to create lock file")
	}

	_ = f.Close()
	return lockHandle{}, true, nil
}

func release(_ lockHandle, path string) {
	_ = os.Remove(path)
}
