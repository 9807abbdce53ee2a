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

// UpsertProfile inserts or updates the user's single profile row.
func (db *DB) UpsertProfile(ctx context.Context, p *models.Profile) (bool, error) {
	start := time.Now()
	had, err := db.exists(ctx, `SELECT 1 FROM profiles WHERE user_id = ?`, p.UserID)
	if err != nil {
		observe("upsert", "profiles", start, err)
		return false, fmt.Errorf("failed to check profile: %w", err)
	}

	var avatar any
	if p.Avatar != nil {
		avatar = *p.Avatar
	}
	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO profiles (user_id, email, birthday, gender, name, avatar)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (user_id) DO UPDATE SET
			email = EXCLUDED.email,
			birthday = EXCLUDED.birthday,
			gender = EXCLUDED.gender,
			name = EXCLUDED.name,
			avatar = EXCLUDED.avatar`,
		p.UserID, p.Email, p.Birthday, string(p.Gender), p.Name, avatar)
	observe("upsert", "profiles", start, err)
	if err != nil {
		return false, fmt.Errorf("failed to upsert profile: %w", err)
	}
	return !had, nil
}

// DeleteProfile removes the user's profile.
func (db *DB) DeleteProfile(ctx context.Context, userID string) error {
	start := time.Now()
	_, err := db.conn.ExecContext(ctx, `DELETE FROM profiles WHERE user_id = ?`, userID)
	observe("delete", "profiles", start, err)
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	return nil
}

// UpsertDevice inserts or updates the user's single device row. The
// remote device id is payload, not the key, so a hardware swap
// replaces the row in place.
func (db *DB) UpsertDevice(ctx context.Context, d *models.Device) (bool, error) {
	start := time.Now()
	had, err := db.exists(ctx, `SELECT 1 FROM devices WHERE user_id = ?`, d.UserID)
	if err != nil {
		observe("upsert", "devices", start, err)
		return false, fmt.Errorf("failed to check device: %w", err)
	}

	var lastSync any
	if d.LastSyncTime != nil {
		lastSync = *d.LastSyncTime
	}
	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO devices (user_id, id, device_type, serial_number, firmware_version, battery_level, last_sync_time)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (user_id) DO UPDATE SET
			id = EXCLUDED.id,
			device_type = EXCLUDED.device_type,
			serial_number = EXCLUDED.serial_number,
			firmware_version = EXCLUDED.firmware_version,
			battery_level = EXCLUDED.battery_level,
			last_sync_time = EXCLUDED.last_sync_time`,
		d.UserID, d.ID, d.DeviceType, d.SerialNumber, d.FirmwareVersion, d.BatteryLevel, lastSync)
	observe("upsert", "devices", start, err)
	if err != nil {
		return false, fmt.Errorf("failed to upsert device: %w", err)
	}
	return !had, nil
}

// DeleteDevice removes a device by its remote id.
func (db *DB) DeleteDevice(ctx context.Context, id string) error {
	start := time.Now()
	_, err := db.conn.ExecContext(ctx, `DELETE FROM devices WHERE id = ?`, id)
	observe("delete", "devices", start, err)
	if err != nil {
		return fmt.Errorf("failed to delete device: %w", err)
	}
	return nil
}
