// Package instancelock guards against two relay processes polling the
// same chat front-end, which would produce duplicate replies.
package instancelock

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/flock"
)

// Lock is a held advisory file lock. It must be released on every exit
// path of the owning process.
type Lock struct {
	fl *flock.Flock
}

// Acquire takes the lock at path, retrying until timeout. It fails
// rather than deadlocking when another process already holds it.
func Acquire(path string, timeout time.Duration) (*Lock, error) {
	fl := flock.New(path)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	ok, err := fl.TryLockContext(ctx, 100*time.Millisecond)
	if err != nil {
		return nil, fmt.Errorf("acquire instance lock %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("acquire instance lock %s: timed out after %s", path, timeout)
	}
	return &Lock{fl: fl}, nil
}

// Release lets go of the lock.
func (l *Lock) Release() error {
	return l.fl.Unlock()
}
