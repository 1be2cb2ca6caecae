package lock

import (
	"context"
	"sync"
	"time"
)

const pollInterval = 20 * time.Millisecond

var held sync.Map

// WithDelay runs safeCode while holding key. Callers sharing a key run one at a time within the process.
// It returns success=false when the key stays busy for wait or ctx is done first.
func WithDelay(ctx context.Context, key string, wait time.Duration, safeCode func() error) (success bool, err error) {
	timeout := time.NewTimer(wait)
	defer timeout.Stop()
	for {
		if _, busy := held.LoadOrStore(key, struct{}{}); !busy {
			defer held.Delete(key)
			return true, safeCode()
		}
		select {
		case <-timeout.C:
			return false, nil
		case <-ctx.Done():
			return false, nil
		case <-time.After(pollInterval):
		}
	}
}
