// Misfitsync - Misfit Cloud API Integration and Sync Engine
// Copyright 2026 ORCAS (orcasgit)
// SPDX-License-Identifier: BSD-2-Clause
// https://github.com/orcasgit/misfitsync

package misfit

import (
	"errors"
	"fmt"
	"time"
)

// RateLimitError reports that the API rate limit was hit. Reset is the
// server-provided time at which the limit window rolls over; callers
// reschedule the whole unit of work for after that time.
type RateLimitError struct {
	Reset time.Time
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("misfit: rate limited until %s", e.Reset.Format(time.RFC3339))
}

// BadRequestError reports a request the API permanently rejected.
// It is never retried.
type BadRequestError struct {
	Status  int
	Message string
}

func (e *BadRequestError) Error() string {
	return fmt.Sprintf("misfit: bad request (%d): %s", e.Status, e.Message)
}

// AsRateLimit extracts a RateLimitError from err's chain.
func AsRateLimit(err error) (*RateLimitError, bool) {
	var rl *RateLimitError
	if errors.As(err, &rl) {
		return rl, true
	}
	return nil, false
}

// IsBadRequest reports whether err's chain contains a BadRequestError.
func IsBadRequest(err error) bool {
	var br *BadRequestError
	return errors.As(err, &br)
}
