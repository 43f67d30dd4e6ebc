//go:build !windows

package toolcache

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

var flockFn = unix.Flock

// tryLock takes an exclusive flock without blocking. It reports false when another
// process holds the lock.
func tryLock(file *os.File) (bool, error) {
	err := flockFn(int(file.Fd()), unix.LOCK_EX|unix.LOCK_NB)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, unix.EWOULDBLOCK), errors.Is(err, unix.EAGAIN):
		return false, nil
	default:
		return false, err
	}
}

func unlock(file *os.File) error {
	return flockFn(int(file.Fd()), unix.LOCK_UN)
}
