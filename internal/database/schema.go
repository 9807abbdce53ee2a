// Misfitsync - Misfit Cloud API Integration and Sync Engine
// Copyright 2026 ORCAS (orcasgit)
// SPDX-License-Identifier: BSD-2-Clause
// https://github.com/orcasgit/misfitsync

package database

import (
	"context"
	"fmt"
)

// schemaStatements creates all tables. Natural keys are declared as
// primary keys so ON CONFLICT upserts have a conflict target.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS linked_accounts (
		misfit_user_id VARCHAR PRIMARY KEY,
		user_id        VARCHAR NOT NULL UNIQUE,
		access_token   VARCHAR NOT NULL,
		last_update    TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS profiles (
		user_id  VARCHAR PRIMARY KEY,
		email    VARCHAR NOT NULL,
		birthday DATE NOT NULL,
		gender   VARCHAR NOT NULL,
		name     VARCHAR NOT NULL DEFAULT '',
		avatar   VARCHAR
	)`,

	// One device row per user; the remote device id is payload so a
	// hardware swap replaces the row in place.
	`CREATE TABLE IF NOT EXISTS devices (
		user_id          VARCHAR PRIMARY KEY,
		id               VARCHAR NOT NULL,
		device_type      VARCHAR NOT NULL,
		serial_number    VARCHAR NOT NULL,
		firmware_version VARCHAR NOT NULL,
		battery_level    INTEGER NOT NULL,
		last_sync_time   TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS goals (
		id               VARCHAR PRIMARY KEY,
		user_id          VARCHAR NOT NULL,
		date             DATE NOT NULL,
		points           DOUBLE NOT NULL,
		target_points    INTEGER NOT NULL,
		time_zone_offset INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_goals_user_date ON goals (user_id, date)`,

	`CREATE TABLE IF NOT EXISTS sessions (
		id            VARCHAR PRIMARY KEY,
		user_id       VARCHAR NOT NULL,
		activity_type VARCHAR NOT NULL,
		start_time    TIMESTAMP NOT NULL,
		duration      INTEGER NOT NULL,
		points        DOUBLE,
		steps         INTEGER,
		calories      DOUBLE,
		distance      DOUBLE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_user_start ON sessions (user_id, start_time)`,

	`CREATE TABLE IF NOT EXISTS sleeps (
		id            VARCHAR PRIMARY KEY,
		user_id       VARCHAR NOT NULL,
		auto_detected BOOLEAN NOT NULL,
		start_time    TIMESTAMP NOT NULL,
		duration      INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sleeps_user_start ON sleeps (user_id, start_time)`,

	`CREATE TABLE IF NOT EXISTS sleep_segments (
		sleep_id VARCHAR NOT NULL,
		time     TIMESTAMP NOT NULL,
		phase    INTEGER NOT NULL,
		PRIMARY KEY (sleep_id, time)
	)`,

	`CREATE TABLE IF NOT EXISTS summaries (
		user_id           VARCHAR NOT NULL,
		date              DATE NOT NULL,
		points            DOUBLE NOT NULL,
		steps             INTEGER NOT NULL,
		calories          DOUBLE NOT NULL,
		activity_calories DOUBLE NOT NULL,
		distance          DOUBLE NOT NULL,
		PRIMARY KEY (user_id, date)
	)`,
}

func (db *DB) initSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement failed: %w", err)
		}
	}
	return nil
}
