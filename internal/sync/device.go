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

// deviceImporter handles the user's single device. Like the profile,
// the upsert targets the user's one row regardless of the id carried
// in a triggering message.
type deviceImporter struct {
	store Store
}

func (i *deviceImporter) Kind() models.Kind { return models.KindDevices }

func (i *deviceImporter) ImportOne(ctx context.Context, client misfit.Client, userID, _ string) (Outcome, error) {
	remote, err := client.Device(ctx)
	if err != nil {
		return Outcome{}, err
	}
	if remote.ID == "" {
		// The user has no device; not an error.
		return absent, nil
	}

	d := &models.Device{
		ID:              remote.ID,
		UserID:          userID,
		DeviceType:      remote.DeviceType,
		SerialNumber:    remote.SerialNumber,
		FirmwareVersion: remote.FirmwareVersion,
		BatteryLevel:    remote.BatteryLevel,
		LastSyncTime:    remote.LastSyncTime,
	}

	created, err := i.store.UpsertDevice(ctx, d)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Created: created, Entity: d}, nil
}

// ImportRange imports the singleton device; the range is irrelevant.
func (i *deviceImporter) ImportRange(ctx context.Context, client misfit.Client, userID string, _, _ time.Time, _ bool) (int, error) {
	out, err := i.ImportOne(ctx, client, userID, "")
	if err != nil {
		return 0, err
	}
	if out.Absent {
		return 0, nil
	}
	return 1, nil
}

func (i *deviceImporter) Delete(ctx context.Context, _, remoteID string) error {
	return i.store.DeleteDevice(ctx, remoteID)
}
