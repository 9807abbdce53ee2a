// Misfitsync - Misfit Cloud API Integration and Sync Engine
// Copyright 2026 ORCAS (orcasgit)
// SPDX-License-Identifier: BSD-2-Clause
// https://github.com/orcasgit/misfitsync

package sync

import (
	"reflect"
	"testing"
	"time"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestChunkDates(t *testing.T) {
	tests := []struct {
		name  string
		start string
		end   string
		days  int
		want  []DateRange
	}{
		{
			name:  "single chunk when range fits",
			start: "2024-01-01",
			end:   "2024-01-10",
			days:  30,
			want:  []DateRange{{day("2024-01-01"), day("2024-01-10")}},
		},
		{
			name:  "boundaries shared between adjacent chunks",
			start: "2024-01-01",
			end:   "2024-02-15",
			days:  30,
			want: []DateRange{
				{day("2024-01-01"), day("2024-01-31")},
				{day("2024-01-31"), day("2024-02-15")},
			},
		},
		{
			name:  "exact multiple does not emit an empty tail",
			start: "2024-01-01",
			end:   "2024-01-31",
			days:  30,
			want:  []DateRange{{day("2024-01-01"), day("2024-01-31")}},
		},
		{
			name:  "same start and end yields one chunk",
			start: "2024-01-05",
			end:   "2024-01-05",
			days:  30,
			want:  []DateRange{{day("2024-01-05"), day("2024-01-05")}},
		},
		{
			name:  "start after end yields nothing",
			start: "2024-01-10",
			end:   "2024-01-05",
			days:  30,
			want:  nil,
		},
		{
			name:  "non-positive chunk size yields nothing",
			start: "2024-01-01",
			end:   "2024-01-10",
			days:  0,
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ChunkDates(day(tt.start), day(tt.end), tt.days)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ChunkDates(%s, %s, %d) = %v, want %v", tt.start, tt.end, tt.days, got, tt.want)
			}
		})
	}
}

func TestChunkDatesCoverage(t *testing.T) {
	// Every chunking must cover the full range with no gaps: each
	// chunk starts where the previous one ended.
	start, end := day("2023-11-03"), day("2024-03-19")
	for days := 1; days <= 45; days++ {
		chunks := ChunkDates(start, end, days)
		if len(chunks) == 0 {
			t.Fatalf("days=%d: no chunks", days)
		}
		if !chunks[0].Start.Equal(start) {
			t.Errorf("days=%d: first chunk starts at %v, want %v", days, chunks[0].Start, start)
		}
		if !chunks[len(chunks)-1].End.Equal(end) {
			t.Errorf("days=%d: last chunk ends at %v, want %v", days, chunks[len(chunks)-1].End, end)
		}
		for i := 1; i < len(chunks); i++ {
			if !chunks[i].Start.Equal(chunks[i-1].End) {
				t.Errorf("days=%d: chunk %d starts at %v, previous ended at %v", days, i, chunks[i].Start, chunks[i-1].End)
			}
		}
		for i, c := range chunks {
			if span := int(c.End.Sub(c.Start).Hours() / 24); span > days {
				t.Errorf("days=%d: chunk %d spans %d days", days, i, span)
			}
		}
	}
}

type record struct {
	ID    string
	Value int
}

func TestDedupeBy(t *testing.T) {
	tests := []struct {
		name  string
		items []record
		want  []record
	}{
		{
			name:  "empty",
			items: nil,
			want:  nil,
		},
		{
			name:  "no duplicates preserved as is",
			items: []record{{"a", 1}, {"b", 2}},
			want:  []record{{"a", 1}, {"b", 2}},
		},
		{
			name:  "last occurrence wins in first position",
			items: []record{{"a", 1}, {"b", 2}, {"a", 3}},
			want:  []record{{"a", 3}, {"b", 2}},
		},
		{
			name:  "idempotent over repeated duplicates",
			items: []record{{"a", 1}, {"a", 2}, {"a", 3}},
			want:  []record{{"a", 3}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DedupeBy(tt.items, func(r record) string { return r.ID })
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DedupeBy() = %v, want %v", got, tt.want)
			}
			again := DedupeBy(got, func(r record) string { return r.ID })
			if !reflect.DeepEqual(again, tt.want) {
				t.Errorf("DedupeBy(DedupeBy()) = %v, want %v", again, tt.want)
			}
		})
	}
}

func TestCamelToSnake(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"targetPoints", "target_points"},
		{"ownerId", "owner_id"},
		{"updatedAt", "updated_at"},
		{"id", "id"},
		{"already_snake", "already_snake"},
		{"HTTPStatus", "http_status"},
		{"userID", "user_id"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := CamelToSnake(tt.in); got != tt.want {
				t.Errorf("CamelToSnake(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeKeys(t *testing.T) {
	in := map[string]any{
		"ownerId":   "u1",
		"updatedAt": "2024-01-02 03:04:05 UTC",
		"type":      "goals",
		"nested":    map[string]any{"innerKey": 1},
	}
	got := NormalizeKeys(in)

	for _, key := range []string{"owner_id", "updated_at", "type", "nested"} {
		if _, ok := got[key]; !ok {
			t.Errorf("NormalizeKeys() missing key %q", key)
		}
	}
	// Nested maps keep their original keys.
	nested, ok := got["nested"].(map[string]any)
	if !ok {
		t.Fatalf("nested value lost: %v", got["nested"])
	}
	if _, ok := nested["innerKey"]; !ok {
		t.Errorf("nested key was rewritten: %v", nested)
	}
}

func TestDateOf(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	in := time.Date(2024, 3, 15, 2, 30, 0, 0, loc)
	got := DateOf(in)
	want := time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("DateOf(%v) = %v, want %v", in, got, want)
	}
}
