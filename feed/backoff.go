package feed

import (
	"math/rand"
	"time"
)

const (
	defaultBaseDelay = time.Second
	defaultMaxDelay  = 30 * time.Second
)

// backoffDelay returns the wait before reconnect attempt n (0-based):
// exponential growth from base, capped at max, with full jitter so that a
// fleet of clients does not reconnect in lockstep.
func backoffDelay(attempt int, base, max time.Duration, rnd *rand.Rand) time.Duration {
	if base <= 0 {
		base = defaultBaseDelay
	}
	if max <= 0 {
		max = defaultMaxDelay
	}
	d := base
	for i := 0; i < attempt; i++ {
		d *= 2
		if d >= max {
			d = max
			break
		}
	}
	if rnd == nil {
		return d
	}
	return time.Duration(rnd.Int63n(int64(d)) + 1)
}
