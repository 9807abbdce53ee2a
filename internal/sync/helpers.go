// Misfitsync - Misfit Cloud API Integration and Sync Engine
// Copyright 2026 ORCAS (orcasgit)
// SPDX-License-Identifier: BSD-2-Clause
// https://github.com/orcasgit/misfitsync

package sync

import (
	"strings"
	"time"
	"unicode"
)

// DateRange is one chunk of a chunked date range. Both bounds are
// inclusive.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// ChunkDates splits [start, end] into ranges of at most days days,
// inclusive of the end date. The end date of one chunk equals the
// start date of the next, so a record dated exactly on a boundary may
// be fetched twice by adjacent chunks; consumers must deduplicate by
// identity. Returns nil when start is after end or days is not
// positive.
func ChunkDates(start, end time.Time, days int) []DateRange {
	if days <= 0 || end.Before(start) {
		return nil
	}
	var chunks []DateRange
	s := start
	for {
		e := s.AddDate(0, 0, days)
		if e.After(end) {
			e = end
		}
		chunks = append(chunks, DateRange{Start: s, End: e})
		if !e.Before(end) {
			return chunks
		}
		s = e
	}
}

// DedupeBy returns a new slice retaining one element per distinct key,
// the last seen winning. The relative order of first occurrences is
// preserved. Deduplicating an already-deduplicated slice is a no-op.
func DedupeBy[T any, K comparable](items []T, key func(T) K) []T {
	if len(items) == 0 {
		return nil
	}
	out := make([]T, 0, len(items))
	index := make(map[K]int, len(items))
	for _, item := range items {
		k := key(item)
		if i, seen := index[k]; seen {
			out[i] = item
			continue
		}
		index[k] = len(out)
		out = append(out, item)
	}
	return out
}

// CamelToSnake converts a camelCase name to under_score form:
// "targetPoints" -> "target_points", "ownerId" -> "owner_id".
func CamelToSnake(name string) string {
	var b strings.Builder
	b.Grow(len(name) + 4)
	runes := []rune(name)
	for i, r := range runes {
		if unicode.IsUpper(r) && i > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// NormalizeKeys converts the top-level keys of a remote payload mapping
// from camelCase to the under_score convention used by local
// persistence. Nested mappings are left untouched.
func NormalizeKeys(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[CamelToSnake(k)] = v
	}
	return out
}

// DateOf truncates t to its UTC calendar date.
func DateOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
