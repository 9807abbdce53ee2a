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

// UpsertSummary inserts or updates the summary for (user, date).
func (db *DB) UpsertSummary(ctx context.Context, s *models.Summary) (bool, error) {
	start := time.Now()
	had, err := db.exists(ctx, `SELECT 1 FROM summaries WHERE user_id = ? AND date = ?`, s.UserID, s.Date)
	if err != nil {
		observe("upsert", "summaries", start, err)
		return false, fmt.Errorf("failed to check summary: %w", err)
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO summaries (user_id, date, points, steps, calories, activity_calories, distance)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (user_id, date) DO UPDATE SET
			points = EXCLUDED.points,
			steps = EXCLUDED.steps,
			calories = EXCLUDED.calories,
			activity_calories = EXCLUDED.activity_calories,
			distance = EXCLUDED.distance`,
		s.UserID, s.Date, s.Points, s.Steps, s.Calories, s.ActivityCalories, s.Distance)
	observe("upsert", "summaries", start, err)
	if err != nil {
		return false, fmt.Errorf("failed to upsert summary: %w", err)
	}
	return !had, nil
}

// InsertSummaries bulk-inserts summaries, skipping dates that already
// exist.
func (db *DB) InsertSummaries(ctx context.Context, summaries []models.Summary) error {
	if len(summaries) == 0 {
		return nil
	}
	start := time.Now()
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin summary insert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO summaries (user_id, date, points, steps, calories, activity_calories, distance)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (user_id, date) DO NOTHING`)
	if err != nil {
		return fmt.Errorf("failed to prepare summary insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range summaries {
		s := &summaries[i]
		_, err := stmt.ExecContext(ctx, s.UserID, s.Date, s.Points, s.Steps, s.Calories, s.ActivityCalories, s.Distance)
		if err != nil {
			observe("insert", "summaries", start, err)
			return fmt.Errorf("failed to insert summary for %s: %w", s.Date.Format("2006-01-02"), err)
		}
	}
	err = tx.Commit()
	observe("insert", "summaries", start, err)
	if err != nil {
		return fmt.Errorf("failed to commit summary insert: %w", err)
	}
	return nil
}

// SummaryDatesBetween returns the dates in [start, end] that already
// have a summary for the user. Dates come back at UTC midnight to
// match how the importers key them.
func (db *DB) SummaryDatesBetween(ctx context.Context, userID string, rangeStart, rangeEnd time.Time) (map[time.Time]struct{}, error) {
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx,
		`SELECT date FROM summaries WHERE user_id = ? AND date >= ? AND date <= ?`,
		userID, rangeStart, rangeEnd)
	observe("select", "summaries", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to query summary dates: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make(map[time.Time]struct{})
	for rows.Next() {
		var date time.Time
		if err := rows.Scan(&date); err != nil {
			return nil, fmt.Errorf("failed to scan summary date: %w", err)
		}
		date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
		out[date] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate summary dates: %w", err)
	}
	return out, nil
}
