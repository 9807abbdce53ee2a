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

type goalImporter struct {
	store     Store
	chunkDays int
}

func (i *goalImporter) Kind() models.Kind { return models.KindGoals }

func goalFromRemote(userID string, remote misfit.Goal) models.Goal {
	return models.Goal{
		ID:           remote.ID,
		UserID:       userID,
		Date:         remote.Date.Midnight(),
		Points:       remote.Points,
		TargetPoints: remote.TargetPoints,
		// timeZoneOffset is not in the current API documentation but
		// has been observed in responses.
		TimeZoneOffset: remote.TimeZoneOffset,
	}
}

func (i *goalImporter) ImportOne(ctx context.Context, client misfit.Client, userID, remoteID string) (Outcome, error) {
	remote, err := client.Goal(ctx, remoteID)
	if err != nil {
		return Outcome{}, err
	}
	if remote.ID == "" {
		// Goals occasionally arrive without an id; drop them.
		return absent, nil
	}

	g := goalFromRemote(userID, *remote)
	created, err := i.store.UpsertGoal(ctx, &g)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Created: created, Entity: &g}, nil
}

func (i *goalImporter) ImportRange(ctx context.Context, client misfit.Client, userID string, start, end time.Time, overwrite bool) (int, error) {
	exists, err := i.store.GoalIDsBetween(ctx, userID, start, end)
	if err != nil {
		return 0, err
	}

	var goals []models.Goal
	for _, chunk := range ChunkDates(start, end, i.chunkDays) {
		remotes, err := client.Goals(ctx, chunk.Start, chunk.End)
		if err != nil {
			return 0, err
		}
		for _, remote := range remotes {
			if remote.ID == "" {
				continue
			}
			if _, seen := exists[remote.ID]; seen && !overwrite {
				continue
			}
			goals = append(goals, goalFromRemote(userID, remote))
		}
	}

	// Adjacent chunks share a boundary date, so the same goal can
	// appear twice in the union.
	goals = DedupeBy(goals, func(g models.Goal) string { return g.ID })

	if overwrite {
		for idx := range goals {
			if _, err := i.store.UpsertGoal(ctx, &goals[idx]); err != nil {
				return idx, err
			}
		}
		return len(goals), nil
	}

	if err := i.store.InsertGoals(ctx, goals); err != nil {
		return 0, err
	}
	return len(goals), nil
}

func (i *goalImporter) Delete(ctx context.Context, _, remoteID string) error {
	return i.store.DeleteGoal(ctx, remoteID)
}
