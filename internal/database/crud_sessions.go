// Misfitsync - Misfit Cloud API Integration and Sync Engine
// Copyright 2026 ORCAS (orcasgit)
// SPDX-License-Identifier: BSD-2-Clause
// https://github.com/orcasgit/misfitsync

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/orcasgit/misfitsync/internal/models"
)

func nullable[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

// UpsertSession inserts or updates a session by remote id.
func (db *DB) UpsertSession(ctx context.Context, s *models.Session) (bool, error) {
	start := time.Now()
	had, err := db.exists(ctx, `SELECT 1 FROM sessions WHERE id = ?`, s.ID)
	if err != nil {
		observe("upsert", "sessions", start, err)
		return false, fmt.Errorf("failed to check session: %w", err)
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO sessions (id, user_id, activity_type, start_time, duration, points, steps, calories, distance)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
			user_id = EXCLUDED.user_id,
			activity_type = EXCLUDED.activity_type,
			start_time = EXCLUDED.start_time,
			duration = EXCLUDED.duration,
			points = EXCLUDED.points,
			steps = EXCLUDED.steps,
			calories = EXCLUDED.calories,
			distance = EXCLUDED.distance`,
		s.ID, s.UserID, string(s.ActivityType), s.StartTime, s.Duration,
		nullable(s.Points), nullable(s.Steps), nullable(s.Calories), nullable(s.Distance))
	observe("upsert", "sessions", start, err)
	if err != nil {
		return false, fmt.Errorf("failed to upsert session: %w", err)
	}
	return !had, nil
}

// InsertSessions bulk-inserts sessions, skipping ids that already
// exist.
func (db *DB) InsertSessions(ctx context.Context, sessions []models.Session) error {
	if len(sessions) == 0 {
		return nil
	}
	start := time.Now()
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin session insert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO sessions (id, user_id, activity_type, start_time, duration, points, steps, calories, distance)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO NOTHING`)
	if err != nil {
		return fmt.Errorf("failed to prepare session insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range sessions {
		s := &sessions[i]
		_, err := stmt.ExecContext(ctx, s.ID, s.UserID, string(s.ActivityType), s.StartTime, s.Duration,
			nullable(s.Points), nullable(s.Steps), nullable(s.Calories), nullable(s.Distance))
		if err != nil {
			observe("insert", "sessions", start, err)
			return fmt.Errorf("failed to insert session %s: %w", s.ID, err)
		}
	}
	err = tx.Commit()
	observe("insert", "sessions", start, err)
	if err != nil {
		return fmt.Errorf("failed to commit session insert: %w", err)
	}
	return nil
}

// SessionIDsBetween returns ids of the user's sessions starting within
// [start, endExclusive).
func (db *DB) SessionIDsBetween(ctx context.Context, userID string, rangeStart, rangeEndExclusive time.Time) (map[string]struct{}, error) {
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id FROM sessions WHERE user_id = ? AND start_time >= ? AND start_time < ?`,
		userID, rangeStart, rangeEndExclusive)
	observe("select", "sessions", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to query session ids: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return collectIDs(rows)
}

// DeleteSession removes a session by its remote id.
func (db *DB) DeleteSession(ctx context.Context, id string) error {
	start := time.Now()
	_, err := db.conn.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	observe("delete", "sessions", start, err)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
