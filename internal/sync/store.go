// Misfitsync - Misfit Cloud API Integration and Sync Engine
// Copyright 2026 ORCAS (orcasgit)
// SPDX-License-Identifier: BSD-2-Clause
// https://github.com/orcasgit/misfitsync

package sync

import (
	"context"
	"time"

	"github.com/orcasgit/misfitsync/internal/models"
)

// Store is the local persistence collaborator. Implementations must
// provide atomic upsert-by-natural-key so at-least-once task delivery
// cannot create duplicates; the engine adds no locking of its own.
//
// Lookup methods report absence through an explicit boolean rather
// than a sentinel error. Deletes of missing rows succeed silently.
type Store interface {
	// LinkedAccountByMisfitID resolves a remote Misfit account id to
	// the linked local account.
	LinkedAccountByMisfitID(ctx context.Context, misfitUserID string) (*models.LinkedAccount, bool, error)

	// LinkedAccountByUserID resolves a local user id to their linked
	// account.
	LinkedAccountByUserID(ctx context.Context, userID string) (*models.LinkedAccount, bool, error)

	// UpsertLinkedAccount inserts or replaces a linked account, keyed
	// by misfit user id. At most one account may exist per local user.
	UpsertLinkedAccount(ctx context.Context, a *models.LinkedAccount) error

	// DeleteLinkedAccount removes the link for a misfit user id.
	// Cascading deletion of the user's synced data is the caller's
	// responsibility.
	DeleteLinkedAccount(ctx context.Context, misfitUserID string) error

	// UpsertProfile inserts or updates the user's single profile row.
	UpsertProfile(ctx context.Context, p *models.Profile) (created bool, err error)

	// DeleteProfile removes the user's profile.
	DeleteProfile(ctx context.Context, userID string) error

	// UpsertDevice inserts or updates the user's single device row,
	// keyed by user id; the remote device id is payload, not the key.
	UpsertDevice(ctx context.Context, d *models.Device) (created bool, err error)

	// DeleteDevice removes a device by its remote id.
	DeleteDevice(ctx context.Context, id string) error

	// UpsertGoal inserts or updates a goal by remote id.
	UpsertGoal(ctx context.Context, g *models.Goal) (created bool, err error)

	// InsertGoals bulk-inserts goals assumed not to exist yet.
	InsertGoals(ctx context.Context, goals []models.Goal) error

	// GoalIDsBetween returns ids of the user's goals dated within
	// [start, end].
	GoalIDsBetween(ctx context.Context, userID string, start, end time.Time) (map[string]struct{}, error)

	// DeleteGoal removes a goal by its remote id.
	DeleteGoal(ctx context.Context, id string) error

	// UpsertSession inserts or updates a session by remote id.
	UpsertSession(ctx context.Context, s *models.Session) (created bool, err error)

	// InsertSessions bulk-inserts sessions assumed not to exist yet.
	InsertSessions(ctx context.Context, sessions []models.Session) error

	// SessionIDsBetween returns ids of the user's sessions starting
	// within [start, endExclusive).
	SessionIDsBetween(ctx context.Context, userID string, start, endExclusive time.Time) (map[string]struct{}, error)

	// DeleteSession removes a session by its remote id.
	DeleteSession(ctx context.Context, id string) error

	// UpsertSleep inserts or updates a sleep session by remote id.
	UpsertSleep(ctx context.Context, s *models.Sleep) (created bool, err error)

	// SleepIDsBetween returns ids of the user's sleep sessions
	// starting within [start, endExclusive).
	SleepIDsBetween(ctx context.Context, userID string, start, endExclusive time.Time) (map[string]struct{}, error)

	// DeleteSleepSegments removes all segments of one sleep session.
	DeleteSleepSegments(ctx context.Context, sleepID string) error

	// InsertSleepSegments bulk-inserts segments. (sleep, timestamp)
	// must be unique; callers deduplicate before insertion.
	InsertSleepSegments(ctx context.Context, segments []models.SleepSegment) error

	// DeleteSleep removes a sleep session and all its segments.
	DeleteSleep(ctx context.Context, id string) error

	// UpsertSummary inserts or updates the summary for (user, date).
	UpsertSummary(ctx context.Context, s *models.Summary) (created bool, err error)

	// InsertSummaries bulk-inserts summaries assumed not to exist yet.
	InsertSummaries(ctx context.Context, summaries []models.Summary) error

	// SummaryDatesBetween returns the dates in [start, end] that
	// already have a summary for the user.
	SummaryDatesBetween(ctx context.Context, userID string, start, end time.Time) (map[time.Time]struct{}, error)
}
