// Misfitsync - Misfit Cloud API Integration and Sync Engine
// Copyright 2026 ORCAS (orcasgit)
// SPDX-License-Identifier: BSD-2-Clause
// https://github.com/orcasgit/misfitsync

package sync

import (
	"context"
	"time"

	"github.com/orcasgit/misfitsync/internal/misfit"
	"github.com/orcasgit/misfitsync/internal/models"
)

// sleepImporter handles sleep sessions and their segments. Segments
// are never diffed: whenever an existing sleep is updated its whole
// segment set is deleted and replaced by the new payload's set.
type sleepImporter struct {
	store     Store
	chunkDays int
}

func (i *sleepImporter) Kind() models.Kind { return models.KindSleeps }

func sleepFromRemote(userID string, remote misfit.Sleep) models.Sleep {
	return models.Sleep{
		ID:           remote.ID,
		UserID:       userID,
		AutoDetected: remote.AutoDetected,
		StartTime:    remote.StartTime,
		Duration:     remote.Duration,
	}
}

// segKey identifies a segment for deduplication. Unix nanoseconds
// rather than time.Time so map equality ignores location.
type segKey struct {
	sleepID string
	at      int64
}

func dedupeSegments(segments []models.SleepSegment) []models.SleepSegment {
	return DedupeBy(segments, func(s models.SleepSegment) segKey {
		return segKey{sleepID: s.SleepID, at: s.Time.UnixNano()}
	})
}

// upsertSleep persists one sleep session and returns its replacement
// segment set. An update drops the previous segments first.
func (i *sleepImporter) upsertSleep(ctx context.Context, userID string, remote misfit.Sleep) (created bool, s models.Sleep, segments []models.SleepSegment, err error) {
	s = sleepFromRemote(userID, remote)
	created, err = i.store.UpsertSleep(ctx, &s)
	if err != nil {
		return false, s, nil, err
	}
	if !created {
		if err := i.store.DeleteSleepSegments(ctx, s.ID); err != nil {
			return false, s, nil, err
		}
	}
	for _, detail := range remote.SleepDetails {
		segments = append(segments, models.SleepSegment{
			SleepID: s.ID,
			Time:    detail.Datetime,
			Phase:   models.SleepPhase(detail.Value),
		})
	}
	return created, s, segments, nil
}

func (i *sleepImporter) ImportOne(ctx context.Context, client misfit.Client, userID, remoteID string) (Outcome, error) {
	remote, err := client.Sleep(ctx, remoteID)
	if err != nil {
		return Outcome{}, err
	}
	if remote.ID == "" {
		return absent, nil
	}

	created, s, segments, err := i.upsertSleep(ctx, userID, *remote)
	if err != nil {
		return Outcome{}, err
	}
	if err := i.store.InsertSleepSegments(ctx, dedupeSegments(segments)); err != nil {
		return Outcome{}, err
	}
	return Outcome{Created: created, Entity: &s}, nil
}

func (i *sleepImporter) ImportRange(ctx context.Context, client misfit.Client, userID string, start, end time.Time, overwrite bool) (int, error) {
	exists, err := i.store.SleepIDsBetween(ctx, userID, start, end.AddDate(0, 0, 1))
	if err != nil {
		return 0, err
	}

	var remotes []misfit.Sleep
	for _, chunk := range ChunkDates(start, end, i.chunkDays) {
		batch, err := client.Sleeps(ctx, chunk.Start, chunk.End)
		if err != nil {
			return 0, err
		}
		remotes = append(remotes, batch...)
	}
	remotes = DedupeBy(remotes, func(s misfit.Sleep) string { return s.ID })

	count := 0
	var segments []models.SleepSegment
	for _, remote := range remotes {
		if remote.ID == "" {
			continue
		}
		if _, seen := exists[remote.ID]; seen && !overwrite {
			continue
		}
		_, _, segs, err := i.upsertSleep(ctx, userID, remote)
		if err != nil {
			return count, err
		}
		segments = append(segments, segs...)
		count++
	}

	if err := i.store.InsertSleepSegments(ctx, dedupeSegments(segments)); err != nil {
		return count, err
	}
	return count, nil
}

// Delete removes the sleep session and cascades to its segments.
func (i *sleepImporter) Delete(ctx context.Context, _, remoteID string) error {
	return i.store.DeleteSleep(ctx, remoteID)
}
