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

// profileImporter handles the user's single profile. The remote id in
// a triggering message only frames create vs. update vs. delete; the
// upsert is always keyed by user.
type profileImporter struct {
	store Store
}

func (i *profileImporter) Kind() models.Kind { return models.KindProfiles }

func (i *profileImporter) ImportOne(ctx context.Context, client misfit.Client, userID, _ string) (Outcome, error) {
	remote, err := client.Profile(ctx)
	if err != nil {
		return Outcome{}, err
	}

	p := &models.Profile{
		UserID:   userID,
		Email:    remote.Email,
		Birthday: remote.Birthday.Midnight(),
		Gender:   models.Gender(remote.Gender),
		// Name and avatar are not always included in API results
		// despite the docs saying they are required.
		Name: remote.Name,
	}
	if remote.Avatar != "" {
		avatar := remote.Avatar
		p.Avatar = &avatar
	}

	created, err := i.store.UpsertProfile(ctx, p)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Created: created, Entity: p}, nil
}

// ImportRange imports the singleton profile; the range is irrelevant.
func (i *profileImporter) ImportRange(ctx context.Context, client misfit.Client, userID string, _, _ time.Time, _ bool) (int, error) {
	out, err := i.ImportOne(ctx, client, userID, "")
	if err != nil {
		return 0, err
	}
	if out.Absent {
		return 0, nil
	}
	return 1, nil
}

func (i *profileImporter) Delete(ctx context.Context, userID, _ string) error {
	return i.store.DeleteProfile(ctx, userID)
}
