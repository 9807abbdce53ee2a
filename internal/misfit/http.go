// Misfitsync - Misfit Cloud API Integration and Sync Engine
// Copyright 2026 ORCAS (orcasgit)
// SPDX-License-Identifier: BSD-2-Clause
// https://github.com/orcasgit/misfitsync

package misfit

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"
)

const requestTimeout = 30 * time.Second

// HTTPClient is the HTTP implementation of Client. It applies a
// client-side rate limiter so a single account cannot burn through the
// Misfit per-token request budget, and maps API failures onto the
// package error taxonomy.
type HTTPClient struct {
	baseURL     string
	accessToken string
	http        *http.Client
	limiter     *rate.Limiter
}

// NewHTTPClient creates a client for one account's access token.
// requestsPerHour caps outbound request rate; zero disables the cap.
func NewHTTPClient(baseURL, accessToken string, requestsPerHour int) *HTTPClient {
	limit := rate.Inf
	if requestsPerHour > 0 {
		limit = rate.Every(time.Hour / time.Duration(requestsPerHour))
	}
	return &HTTPClient{
		baseURL:     baseURL,
		accessToken: accessToken,
		http:        &http.Client{Timeout: requestTimeout},
		limiter:     rate.NewLimiter(limit, 1),
	}
}

// NewHTTPFactory returns a ClientFactory producing HTTP clients against
// the given API base URL.
func NewHTTPFactory(baseURL string, requestsPerHour int) ClientFactory {
	return func(accessToken string) Client {
		return NewHTTPClient(baseURL, accessToken, requestsPerHour)
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values, v any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	u := c.baseURL + "/" + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return fmt.Errorf("failed to read response from %s: %w", path, err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return &RateLimitError{Reset: parseRateLimitReset(resp.Header)}
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return &BadRequestError{Status: resp.StatusCode, Message: string(body)}
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, path)
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

// parseRateLimitReset reads the X-RateLimit-Reset header (unix
// seconds). A missing or malformed header yields the current time so
// the caller retries without extra delay.
func parseRateLimitReset(h http.Header) time.Time {
	secs, err := strconv.ParseInt(h.Get("X-RateLimit-Reset"), 10, 64)
	if err != nil {
		return time.Now()
	}
	return time.Unix(secs, 0)
}

func rangeParams(start, end time.Time) url.Values {
	params := url.Values{}
	params.Set("start_date", start.Format("2006-01-02"))
	params.Set("end_date", end.Format("2006-01-02"))
	return params
}

// Profile implements Client.
func (c *HTTPClient) Profile(ctx context.Context) (*Profile, error) {
	var p Profile
	if err := c.get(ctx, "user/me/profile", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Device implements Client.
func (c *HTTPClient) Device(ctx context.Context) (*Device, error) {
	var d Device
	if err := c.get(ctx, "user/me/device", nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// Goal implements Client.
func (c *HTTPClient) Goal(ctx context.Context, id string) (*Goal, error) {
	var g Goal
	if err := c.get(ctx, "user/me/activity/goals/"+url.PathEscape(id), nil, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

// Goals implements Client.
func (c *HTTPClient) Goals(ctx context.Context, start, end time.Time) ([]Goal, error) {
	var out struct {
		Goals []Goal `json:"goals"`
	}
	if err := c.get(ctx, "user/me/activity/goals", rangeParams(start, end), &out); err != nil {
		return nil, err
	}
	return out.Goals, nil
}

// Session implements Client.
func (c *HTTPClient) Session(ctx context.Context, id string) (*Session, error) {
	var s Session
	if err := c.get(ctx, "user/me/activity/sessions/"+url.PathEscape(id), nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Sessions implements Client.
func (c *HTTPClient) Sessions(ctx context.Context, start, end time.Time) ([]Session, error) {
	var out struct {
		Sessions []Session `json:"sessions"`
	}
	if err := c.get(ctx, "user/me/activity/sessions", rangeParams(start, end), &out); err != nil {
		return nil, err
	}
	return out.Sessions, nil
}

// Sleep implements Client.
func (c *HTTPClient) Sleep(ctx context.Context, id string) (*Sleep, error) {
	var s Sleep
	if err := c.get(ctx, "user/me/activity/sleeps/"+url.PathEscape(id), nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Sleeps implements Client.
func (c *HTTPClient) Sleeps(ctx context.Context, start, end time.Time) ([]Sleep, error) {
	var out struct {
		Sleeps []Sleep `json:"sleeps"`
	}
	if err := c.get(ctx, "user/me/activity/sleeps", rangeParams(start, end), &out); err != nil {
		return nil, err
	}
	return out.Sleeps, nil
}

// Summaries implements Client. With detail the API returns one entry
// per day; without it a single aggregate entry covers the whole range.
func (c *HTTPClient) Summaries(ctx context.Context, start, end time.Time, detail bool) ([]Summary, error) {
	params := rangeParams(start, end)
	if detail {
		params.Set("detail", "true")
		var out struct {
			Summary []Summary `json:"summary"`
		}
		if err := c.get(ctx, "user/me/activity/summary", params, &out); err != nil {
			return nil, err
		}
		return out.Summary, nil
	}

	var s Summary
	if err := c.get(ctx, "user/me/activity/summary", params, &s); err != nil {
		return nil, err
	}
	return []Summary{s}, nil
}
