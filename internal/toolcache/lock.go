package toolcache

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/conn-castle/nodeup/internal/messages"
)

var (
	tryLockFn = tryLock
	unlockFn  = unlock
	lockSleep = time.Sleep
	lockNow   = time.Now
)

var (
	lockWaitTimeout = 5 * time.Minute
	lockPollEvery   = 100 * time.Millisecond
)

// entryLock is an exclusive cross-process lock on one cache entry.
type entryLock struct {
	file *os.File
}

func (c *Cache) lockPath(tool, ver, arch string) string {
	return filepath.Join(c.root, tool, ver, arch+".lock")
}

// withEntryLock runs fn while holding the insert lock for (tool, ver, arch).
// Waiting longer than lockWaitTimeout fails with CacheLockTimeoutFmt.
func (c *Cache) withEntryLock(tool, ver, arch string, fn func() error) error {
	lock, err := lockEntry(c.lockPath(tool, ver, arch))
	if err != nil {
		return err
	}
	defer func() {
		_ = lock.unlock()
	}()
	return fn()
}

// lockEntry opens path and polls a non-blocking lock on it until the deadline.
func lockEntry(path string) (*entryLock, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf(messages.CacheOpenLockFmt, path, err)
	}
	deadline := lockNow().Add(lockWaitTimeout)
	for {
		held, err := tryLockFn(file)
		if err != nil {
			_ = file.Close()
			return nil, fmt.Errorf(messages.CacheLockFmt, path, err)
		}
		if held {
			return &entryLock{file: file}, nil
		}
		if lockNow().After(deadline) {
			_ = file.Close()
			return nil, fmt.Errorf(messages.CacheLockTimeoutFmt, lockWaitTimeout)
		}
		lockSleep(lockPollEvery)
	}
}

func (l *entryLock) unlock() error {
	if l == nil || l.file == nil {
		return nil
	}
	err := unlockFn(l.file)
	if cerr := l.file.Close(); err == nil {
		err = cerr
	}
	return err
}
