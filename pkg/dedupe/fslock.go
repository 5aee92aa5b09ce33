package dedupe

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// FSLockGroup serialises executions of the same key across processes with a
// lock file per key. Results are not shared, every caller runs fn once it
// holds the lock.
type FSLockGroup struct {
	lockDir     string
	lockTimeout time.Duration
}

var _ Group = (*FSLockGroup)(nil)

func NewFlockGroup(lockDir string, lockTimeout time.Duration) (*FSLockGroup, error) {
	if lockDir == "" {
		lockDir = filepath.Join(os.TempDir(), "imgsearch-locks")
	}
	if lockTimeout <= 0 {
		lockTimeout = time.Minute
	}

	if err := os.MkdirAll(lockDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	return &FSLockGroup{
		lockDir:     lockDir,
		lockTimeout: lockTimeout,
	}, nil
}

func (g *FSLockGroup) Do(key string, fn func() (interface{}, error)) (v interface{}, err error, shared bool) {
	hash := sha256.Sum256([]byte(key))
	lockPath := filepath.Join(g.lockDir, hex.EncodeToString(hash[:])+".lock")

	fileLock := flock.New(lockPath)
	ctx, cancel := context.WithTimeout(context.Background(), g.lockTimeout)
	defer cancel()

	acquired, err := fileLock.TryLockContext(ctx, 10*time.Millisecond)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock: %w", err), false
	}
	if !acquired {
		return nil, ErrLockTimeout, false
	}
	defer fileLock.Unlock()

	v, err = fn()
	return v, err, false
}

var ErrLockTimeout = errors.New("failed to acquire lock: timeout")
