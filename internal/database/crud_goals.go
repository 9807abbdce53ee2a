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

// UpsertGoal inserts or updates a goal by remote id.
func (db *DB) UpsertGoal(ctx context.Context, g *models.Goal) (bool, error) {
	start := time.Now()
	had, err := db.exists(ctx, `SELECT 1 FROM goals WHERE id = ?`, g.ID)
	if err != nil {
		observe("upsert", "goals", start, err)
		return false, fmt.Errorf("failed to check goal: %w", err)
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO goals (id, user_id, date, points, target_points, time_zone_offset)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
			user_id = EXCLUDED.user_id,
			date = EXCLUDED.date,
			points = EXCLUDED.points,
			target_points = EXCLUDED.target_points,
			time_zone_offset = EXCLUDED.time_zone_offset`,
		g.ID, g.UserID, g.Date, g.Points, g.TargetPoints, g.TimeZoneOffset)
	observe("upsert", "goals", start, err)
	if err != nil {
		return false, fmt.Errorf("failed to upsert goal: %w", err)
	}
	return !had, nil
}

// InsertGoals bulk-inserts goals. ON CONFLICT DO NOTHING keeps a retry
// of a partially delivered batch idempotent.
func (db *DB) InsertGoals(ctx context.Context, goals []models.Goal) error {
	if len(goals) == 0 {
		return nil
	}
	start := time.Now()
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin goal insert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO goals (id, user_id, date, points, target_points, time_zone_offset)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO NOTHING`)
	if err != nil {
		return fmt.Errorf("failed to prepare goal insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range goals {
		g := &goals[i]
		if _, err := stmt.ExecContext(ctx, g.ID, g.UserID, g.Date, g.Points, g.TargetPoints, g.TimeZoneOffset); err != nil {
			observe("insert", "goals", start, err)
			return fmt.Errorf("failed to insert goal %s: %w", g.ID, err)
		}
	}
	err = tx.Commit()
	observe("insert", "goals", start, err)
	if err != nil {
		return fmt.Errorf("failed to commit goal insert: %w", err)
	}
	return nil
}

// GoalIDsBetween returns ids of the user's goals dated within
// [start, end].
func (db *DB) GoalIDsBetween(ctx context.Context, userID string, rangeStart, rangeEnd time.Time) (map[string]struct{}, error) {
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id FROM goals WHERE user_id = ? AND date >= ? AND date <= ?`,
		userID, rangeStart, rangeEnd)
	observe("select", "goals", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to query goal ids: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return collectIDs(rows)
}

// DeleteGoal removes a goal by its remote id.
func (db *DB) DeleteGoal(ctx context.Context, id string) error {
	start := time.Now()
	_, err := db.conn.ExecContext(ctx, `DELETE FROM goals WHERE id = ?`, id)
	observe("delete", "goals", start, err)
	if err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}
	return nil
}
