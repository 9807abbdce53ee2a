// Misfitsync - Misfit Cloud API Integration and Sync Engine
// Copyright 2026 ORCAS (orcasgit)
// SPDX-License-Identifier: BSD-2-Clause
// https://github.com/orcasgit/misfitsync

package sync

import (
	"math/rand/v2"
	"time"
)

// RetryDelay returns how long to wait before re-running a unit of work
// that hit the remote rate limit. The base delay spans from now to the
// advertised reset time, never negative, plus a random jitter in
// [0, maxJitter) so concurrent units do not stampede the window reset.
func RetryDelay(reset, now time.Time, maxJitter time.Duration) time.Duration {
	delay := reset.Sub(now)
	if delay < 0 {
		delay = 0
	}
	if maxJitter > 0 {
		delay += time.Duration(rand.Int64N(int64(maxJitter)))
	}
	return delay
}
