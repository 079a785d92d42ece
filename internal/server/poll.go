package server

import (
	"context"
	"time"
)

// pollUntil calls check at the given interval until it reports true,
// the bound elapses, or the caller goes away. It returns whether check
// ever succeeded. The first check runs after one interval, matching
// how long a freshly-launched worker needs to produce anything at all.
func pollUntil(ctx context.Context, interval, bound time.Duration, check func() bool) bool {
	deadline := time.NewTimer(bound)
	defer deadline.Stop()
	tick := time.NewTicker(interval)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return false
		case <-deadline.C:
			return false
		case <-tick.C:
			if check() {
				return true
			}
		}
	}
}
