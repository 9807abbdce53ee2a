// Misfitsync - Misfit Cloud API Integration and Sync Engine
// Copyright 2026 ORCAS (orcasgit)
// SPDX-License-Identifier: BSD-2-Clause
// https://github.com/orcasgit/misfitsync

package sync

import (
	"testing"
	"time"
)

func TestRetryDelay(t *testing.T) {
	now := time.Date(2024, 1, 20, 10, 0, 0, 0, time.UTC)

	t.Run("spans until the reset time", func(t *testing.T) {
		got := RetryDelay(now.Add(45*time.Minute), now, 0)
		if got != 45*time.Minute {
			t.Errorf("RetryDelay() = %v, want 45m", got)
		}
	})

	t.Run("reset in the past yields zero base", func(t *testing.T) {
		got := RetryDelay(now.Add(-time.Minute), now, 0)
		if got != 0 {
			t.Errorf("RetryDelay() = %v, want 0", got)
		}
	})

	t.Run("jitter stays within bound", func(t *testing.T) {
		base := 10 * time.Minute
		jitter := 5 * time.Second
		for i := 0; i < 100; i++ {
			got := RetryDelay(now.Add(base), now, jitter)
			if got < base || got >= base+jitter {
				t.Fatalf("RetryDelay() = %v, want in [%v, %v)", got, base, base+jitter)
			}
		}
	})

	t.Run("expired reset with jitter never goes negative", func(t *testing.T) {
		for i := 0; i < 100; i++ {
			got := RetryDelay(now.Add(-time.Hour), now, 5*time.Second)
			if got < 0 || got >= 5*time.Second {
				t.Fatalf("RetryDelay() = %v, want in [0, 5s)", got)
			}
		}
	})
}
