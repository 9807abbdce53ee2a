// Misfitsync - Misfit Cloud API Integration and Sync Engine
// Copyright 2026 ORCAS (orcasgit)
// SPDX-License-Identifier: BSD-2-Clause
// https://github.com/orcasgit/misfitsync

package misfit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"
)

func TestHTTPClientGoals(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("Authorization = %q", got)
		}
		if got := r.URL.Path; got != "/user/me/activity/goals" {
			t.Errorf("path = %q", got)
		}
		q := r.URL.Query()
		if q.Get("start_date") != "2024-01-01" || q.Get("end_date") != "2024-01-31" {
			t.Errorf("range = %s..%s", q.Get("start_date"), q.Get("end_date"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"goals":[
			{"id":"g1","date":"2024-01-10","points":350.5,"targetPoints":600,"timeZoneOffset":-5},
			{"id":"g2","date":"2024-01-11","points":120,"targetPoints":600}
		]}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "tok", 0)
	goals, err := c.Goals(context.Background(),
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Goals() error = %v", err)
	}
	if len(goals) != 2 {
		t.Fatalf("got %d goals, want 2", len(goals))
	}
	if goals[0].ID != "g1" || goals[0].Points != 350.5 || goals[0].TimeZoneOffset != -5 {
		t.Errorf("goals[0] = %+v", goals[0])
	}
	want := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	if !goals[0].Date.Midnight().Equal(want) {
		t.Errorf("goals[0].Date = %v, want %v", goals[0].Date.Midnight(), want)
	}
}

func TestHTTPClientRateLimit(t *testing.T) {
	reset := time.Now().Add(20 * time.Minute).Unix()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(reset, 10))
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "tok", 0)
	_, err := c.Profile(context.Background())
	rl, ok := AsRateLimit(err)
	if !ok {
		t.Fatalf("error = %v, want *RateLimitError", err)
	}
	if rl.Reset.Unix() != reset {
		t.Errorf("reset = %v, want unix %d", rl.Reset, reset)
	}
}

func TestHTTPClientRateLimitWithoutHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "tok", 0)
	before := time.Now()
	_, err := c.Device(context.Background())
	rl, ok := AsRateLimit(err)
	if !ok {
		t.Fatalf("error = %v, want *RateLimitError", err)
	}
	// Without the header the reset defaults to now, so a retry is
	// immediate.
	if rl.Reset.Before(before.Add(-time.Second)) || rl.Reset.After(time.Now().Add(time.Second)) {
		t.Errorf("reset = %v, want roughly now", rl.Reset)
	}
}

func TestHTTPClientBadRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "invalid object id", http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "tok", 0)
	_, err := c.Goal(context.Background(), "nope")
	if !IsBadRequest(err) {
		t.Fatalf("error = %v, want bad request", err)
	}
}

func TestHTTPClientServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "tok", 0)
	_, err := c.Session(context.Background(), "s1")
	if err == nil {
		t.Fatal("expected error for 500")
	}
	if IsBadRequest(err) {
		t.Error("500 must not map to bad request")
	}
	if _, ok := AsRateLimit(err); ok {
		t.Error("500 must not map to rate limit")
	}
}

func TestHTTPClientSummariesDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("detail") != "true" {
			t.Error("detail param missing")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"summary":[
			{"date":"2024-01-10","points":400,"steps":9000,"calories":2100.5,"activityCalories":720,"distance":3.1}
		]}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "tok", 0)
	got, err := c.Summaries(context.Background(),
		time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), true)
	if err != nil {
		t.Fatalf("Summaries() error = %v", err)
	}
	if len(got) != 1 || got[0].Steps != 9000 || got[0].ActivityCalories != 720 {
		t.Errorf("summaries = %+v", got)
	}
}

func TestDateUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{"plain date", `"2024-03-05"`, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
		{"rfc3339 fallback", `"2024-03-05T14:30:00Z"`, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
		{"empty", `""`, time.Time{}},
		{"null", `null`, time.Time{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			if err := d.UnmarshalJSON([]byte(tt.in)); err != nil {
				t.Fatalf("UnmarshalJSON(%s) error = %v", tt.in, err)
			}
			if tt.want.IsZero() {
				if !d.IsZero() {
					t.Errorf("got %v, want zero", d.Time)
				}
				return
			}
			if !d.Midnight().Equal(tt.want) {
				t.Errorf("Midnight() = %v, want %v", d.Midnight(), tt.want)
			}
		})
	}

	var d Date
	if err := d.UnmarshalJSON([]byte(`"not a date"`)); err == nil {
		t.Error("expected error for malformed date")
	}
}
