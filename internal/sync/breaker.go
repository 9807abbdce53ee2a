// Misfitsync - Misfit Cloud API Integration and Sync Engine
// Copyright 2026 ORCAS (orcasgit)
// SPDX-License-Identifier: BSD-2-Clause
// https://github.com/orcasgit/misfitsync

package sync

import (
	"context"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/orcasgit/misfitsync/internal/misfit"
)

// breakerClient wraps a remote client with a shared circuit breaker so
// a failing upstream trips fast instead of burning through the rate
// budget with doomed calls.
type breakerClient struct {
	inner misfit.Client
	cb    *gobreaker.CircuitBreaker[any]
}

// NewBreakerFactory decorates a client factory with one circuit
// breaker shared across all tokens. Application level errors, rate
// limits and rejected requests, are not treated as upstream failures.
func NewBreakerFactory(factory misfit.ClientFactory) misfit.ClientFactory {
	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        "misfit-api",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			if _, ok := misfit.AsRateLimit(err); ok {
				return true
			}
			return misfit.IsBadRequest(err)
		},
	})
	return func(accessToken string) misfit.Client {
		return &breakerClient{inner: factory(accessToken), cb: cb}
	}
}

func execute[T any](c *breakerClient, fn func() (T, error)) (T, error) {
	out, err := c.cb.Execute(func() (any, error) {
		return fn()
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return out.(T), nil
}

func (c *breakerClient) Profile(ctx context.Context) (*misfit.Profile, error) {
	return execute(c, func() (*misfit.Profile, error) { return c.inner.Profile(ctx) })
}

func (c *breakerClient) Device(ctx context.Context) (*misfit.Device, error) {
	return execute(c, func() (*misfit.Device, error) { return c.inner.Device(ctx) })
}

func (c *breakerClient) Goal(ctx context.Context, id string) (*misfit.Goal, error) {
	return execute(c, func() (*misfit.Goal, error) { return c.inner.Goal(ctx, id) })
}

func (c *breakerClient) Goals(ctx context.Context, start, end time.Time) ([]misfit.Goal, error) {
	return execute(c, func() ([]misfit.Goal, error) { return c.inner.Goals(ctx, start, end) })
}

func (c *breakerClient) Session(ctx context.Context, id string) (*misfit.Session, error) {
	return execute(c, func() (*misfit.Session, error) { return c.inner.Session(ctx, id) })
}

func (c *breakerClient) Sessions(ctx context.Context, start, end time.Time) ([]misfit.Session, error) {
	return execute(c, func() ([]misfit.Session, error) { return c.inner.Sessions(ctx, start, end) })
}

func (c *breakerClient) Sleep(ctx context.Context, id string) (*misfit.Sleep, error) {
	return execute(c, func() (*misfit.Sleep, error) { return c.inner.Sleep(ctx, id) })
}

func (c *breakerClient) Sleeps(ctx context.Context, start, end time.Time) ([]misfit.Sleep, error) {
	return execute(c, func() ([]misfit.Sleep, error) { return c.inner.Sleeps(ctx, start, end) })
}

func (c *breakerClient) Summaries(ctx context.Context, start, end time.Time, detail bool) ([]misfit.Summary, error) {
	return execute(c, func() ([]misfit.Summary, error) { return c.inner.Summaries(ctx, start, end, detail) })
}
