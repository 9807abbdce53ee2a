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

// summaryImporter handles daily summaries. Summaries have no remote id
// and are never the subject of a notification message; they are only
// imported range-wise, keyed by (user, date).
type summaryImporter struct {
	store     Store
	chunkDays int
}

func (i *summaryImporter) Kind() models.Kind { return models.KindSummary }

func summaryFromRemote(userID string, remote misfit.Summary) models.Summary {
	return models.Summary{
		UserID:           userID,
		Date:             remote.Date.Midnight(),
		Points:           remote.Points,
		Steps:            remote.Steps,
		Calories:         remote.Calories,
		ActivityCalories: remote.ActivityCalories,
		Distance:         remote.Distance,
	}
}

// ImportOne is a no-op: summaries cannot be fetched by id.
func (i *summaryImporter) ImportOne(context.Context, misfit.Client, string, string) (Outcome, error) {
	return absent, nil
}

func (i *summaryImporter) ImportRange(ctx context.Context, client misfit.Client, userID string, start, end time.Time, overwrite bool) (int, error) {
	exists, err := i.store.SummaryDatesBetween(ctx, userID, start, end)
	if err != nil {
		return 0, err
	}

	count := 0
	var summaries []models.Summary
	for _, chunk := range ChunkDates(start, end, i.chunkDays) {
		remotes, err := client.Summaries(ctx, chunk.Start, chunk.End, true)
		if err != nil {
			return count, err
		}
		for _, remote := range remotes {
			s := summaryFromRemote(userID, remote)
			if overwrite {
				if _, err := i.store.UpsertSummary(ctx, &s); err != nil {
					return count, err
				}
				count++
				continue
			}
			if _, seen := exists[s.Date]; seen {
				continue
			}
			summaries = append(summaries, s)
		}
	}

	if overwrite {
		return count, nil
	}

	summaries = DedupeBy(summaries, func(s models.Summary) time.Time { return s.Date })
	if err := i.store.InsertSummaries(ctx, summaries); err != nil {
		return 0, err
	}
	return len(summaries), nil
}

// Delete removes nothing: summaries are derived data refreshed from
// the remote aggregate and carry no deletion notifications.
func (i *summaryImporter) Delete(context.Context, string, string) error {
	return nil
}
