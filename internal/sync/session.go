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

type sessionImporter struct {
	store     Store
	chunkDays int
}

func (i *sessionImporter) Kind() models.Kind { return models.KindSessions }

func sessionFromRemote(userID string, remote misfit.Session) models.Session {
	return models.Session{
		ID:           remote.ID,
		UserID:       userID,
		ActivityType: models.ActivityType(remote.ActivityType),
		StartTime:    remote.StartTime,
		Duration:     remote.Duration,
		Points:       remote.Points,
		Steps:        remote.Steps,
		Calories:     remote.Calories,
		Distance:     remote.Distance,
	}
}

func (i *sessionImporter) ImportOne(ctx context.Context, client misfit.Client, userID, remoteID string) (Outcome, error) {
	remote, err := client.Session(ctx, remoteID)
	if err != nil {
		return Outcome{}, err
	}
	if remote.ID == "" {
		return absent, nil
	}

	s := sessionFromRemote(userID, *remote)
	created, err := i.store.UpsertSession(ctx, &s)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Created: created, Entity: &s}, nil
}

func (i *sessionImporter) ImportRange(ctx context.Context, client misfit.Client, userID string, start, end time.Time, overwrite bool) (int, error) {
	// Sessions are keyed by start time; a session dated on the end
	// date can start any time before the following midnight.
	exists, err := i.store.SessionIDsBetween(ctx, userID, start, end.AddDate(0, 0, 1))
	if err != nil {
		return 0, err
	}

	var sessions []models.Session
	for _, chunk := range ChunkDates(start, end, i.chunkDays) {
		remotes, err := client.Sessions(ctx, chunk.Start, chunk.End)
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
			sessions = append(sessions, sessionFromRemote(userID, remote))
		}
	}

	sessions = DedupeBy(sessions, func(s models.Session) string { return s.ID })

	if overwrite {
		for idx := range sessions {
			if _, err := i.store.UpsertSession(ctx, &sessions[idx]); err != nil {
				return idx, err
			}
		}
		return len(sessions), nil
	}

	if err := i.store.InsertSessions(ctx, sessions); err != nil {
		return 0, err
	}
	return len(sessions), nil
}

func (i *sessionImporter) Delete(ctx context.Context, _, remoteID string) error {
	return i.store.DeleteSession(ctx, remoteID)
}
