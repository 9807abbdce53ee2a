// Misfitsync - Misfit Cloud API Integration and Sync Engine
// Copyright 2026 ORCAS (orcasgit)
// SPDX-License-Identifier: BSD-2-Clause
// https://github.com/orcasgit/misfitsync

// Package misfit defines the contract with the Misfit cloud API.
//
// The sync core consumes the Client interface and never talks HTTP
// directly; a thin HTTP implementation is provided for the server
// binary. Remote failures surface as exactly two typed errors:
// *RateLimitError (transient, carries the server reset time) and
// *BadRequestError (permanent). Anything else is unexpected.
package misfit

import (
	"context"
	"time"
)

// Client is the per-account view of the Misfit cloud API. All range
// queries are inclusive of both end dates and are limited server-side
// to MaxQueryDays per call.
type Client interface {
	// Profile returns the account's profile.
	Profile(ctx context.Context) (*Profile, error)

	// Device returns the account's device. Accounts without a device
	// return a payload with an empty ID.
	Device(ctx context.Context) (*Device, error)

	// Goal returns a single goal by id.
	Goal(ctx context.Context, id string) (*Goal, error)

	// Goals returns all goals dated within [start, end].
	Goals(ctx context.Context, start, end time.Time) ([]Goal, error)

	// Session returns a single workout session by id.
	Session(ctx context.Context, id string) (*Session, error)

	// Sessions returns all sessions started within [start, end].
	Sessions(ctx context.Context, start, end time.Time) ([]Session, error)

	// Sleep returns a single sleep session by id, including segments.
	Sleep(ctx context.Context, id string) (*Sleep, error)

	// Sleeps returns all sleep sessions started within [start, end].
	Sleeps(ctx context.Context, start, end time.Time) ([]Sleep, error)

	// Summaries returns daily summaries for [start, end]. With detail
	// false the API collapses the range into a single aggregate.
	Summaries(ctx context.Context, start, end time.Time, detail bool) ([]Summary, error)
}

// ClientFactory builds a Client bound to one linked account's OAuth
// access token.
type ClientFactory func(accessToken string) Client

// MaxQueryDays is the longest date span the Misfit API accepts in a
// single range query.
const MaxQueryDays = 30
