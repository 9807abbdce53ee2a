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

// UpsertSleep inserts or updates a sleep session by remote id.
func (db *DB) UpsertSleep(ctx context.Context, s *models.Sleep) (bool, error) {
	start := time.Now()
	had, err := db.exists(ctx, `SELECT 1 FROM sleeps WHERE id = ?`, s.ID)
	if err != nil {
		observe("upsert", "sleeps", start, err)
		return false, fmt.Errorf("failed to check sleep: %w", err)
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO sleeps (id, user_id, auto_detected, start_time, duration)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
			user_id = EXCLUDED.user_id,
			auto_detected = EXCLUDED.auto_detected,
			start_time = EXCLUDED.start_time,
			duration = EXCLUDED.duration`,
		s.ID, s.UserID, s.AutoDetected, s.StartTime, s.Duration)
	observe("upsert", "sleeps", start, err)
	if err != nil {
		return false, fmt.Errorf("failed to upsert sleep: %w", err)
	}
	return !had, nil
}

// SleepIDsBetween returns ids of the user's sleep sessions starting
// within [start, endExclusive).
func (db *DB) SleepIDsBetween(ctx context.Context, userID string, rangeStart, rangeEndExclusive time.Time) (map[string]struct{}, error) {
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id FROM sleeps WHERE user_id = ? AND start_time >= ? AND start_time < ?`,
		userID, rangeStart, rangeEndExclusive)
	observe("select", "sleeps", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to query sleep ids: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return collectIDs(rows)
}

// DeleteSleepSegments removes all segments of one sleep session.
func (db *DB) DeleteSleepSegments(ctx context.Context, sleepID string) error {
	start := time.Now()
	_, err := db.conn.ExecContext(ctx, `DELETE FROM sleep_segments WHERE sleep_id = ?`, sleepID)
	observe("delete", "sleep_segments", start, err)
	if err != nil {
		return fmt.Errorf("failed to delete sleep segments: %w", err)
	}
	return nil
}

// InsertSleepSegments bulk-inserts segments. Redelivered segments hit
// the (sleep_id, time) key and are ignored.
func (db *DB) InsertSleepSegments(ctx context.Context, segments []models.SleepSegment) error {
	if len(segments) == 0 {
		return nil
	}
	start := time.Now()
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin segment insert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO sleep_segments (sleep_id, time, phase)
		 VALUES (?, ?, ?)
		 ON CONFLICT (sleep_id, time) DO NOTHING`)
	if err != nil {
		return fmt.Errorf("failed to prepare segment insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range segments {
		seg := &segments[i]
		if _, err := stmt.ExecContext(ctx, seg.SleepID, seg.Time, int(seg.Phase)); err != nil {
			observe("insert", "sleep_segments", start, err)
			return fmt.Errorf("failed to insert sleep segment: %w", err)
		}
	}
	err = tx.Commit()
	observe("insert", "sleep_segments", start, err)
	if err != nil {
		return fmt.Errorf("failed to commit segment insert: %w", err)
	}
	return nil
}

// DeleteSleep removes a sleep session and all its segments.
func (db *DB) DeleteSleep(ctx context.Context, id string) error {
	if err := db.DeleteSleepSegments(ctx, id); err != nil {
		return err
	}
	start := time.Now()
	_, err := db.conn.ExecContext(ctx, `DELETE FROM sleeps WHERE id = ?`, id)
	observe("delete", "sleeps", start, err)
	if err != nil {
		return fmt.Errorf("failed to delete sleep: %w", err)
	}
	return nil
}
