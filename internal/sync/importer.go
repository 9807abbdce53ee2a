// Misfitsync - Misfit Cloud API Integration and Sync Engine
// Copyright 2026 ORCAS (orcasgit)
// SPDX-License-Identifier: BSD-2-Clause
// https://github.com/orcasgit/misfitsync

package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/orcasgit/misfitsync/internal/misfit"
	"github.com/orcasgit/misfitsync/internal/models"
)

// ErrUnknownAction reports a notification action outside
// created/updated/deleted. It is a contract violation, not a transient
// fault, and aborts the enclosing batch without retry.
var ErrUnknownAction = errors.New("unknown message action")

// Outcome is the result of a single-entity import. A malformed remote
// record (a goal without an id, an account without a device) yields
// Absent instead of an error so batch orchestration can continue.
type Outcome struct {
	// Created is true when the upsert inserted a new record, false
	// when it updated an existing one.
	Created bool

	// Absent is true when the remote record was missing or malformed
	// and nothing was persisted.
	Absent bool

	// Entity is the persisted record, nil when Absent.
	Entity any
}

// absent is the no-op outcome for malformed remote records.
var absent = Outcome{Absent: true}

// Importer is the per-entity-kind import capability. One
// implementation exists per entity kind, selected by Kind tag through
// the Registry.
type Importer interface {
	// Kind returns the notification kind this importer handles.
	Kind() models.Kind

	// ImportOne fetches a single remote record, maps it to local
	// fields and upserts it scoped to the user.
	ImportOne(ctx context.Context, client misfit.Client, userID, remoteID string) (Outcome, error)

	// ImportRange imports all records dated within [start, end],
	// chunking remote calls as needed. With overwrite false only
	// previously unseen records are inserted (historical backfill);
	// with overwrite true existing records are updated as well
	// (notification-triggered refresh). Returns the number of records
	// written.
	ImportRange(ctx context.Context, client misfit.Client, userID string, start, end time.Time, overwrite bool) (int, error)

	// Delete removes the entity. remoteID is ignored by importers with
	// singleton-per-user framing (profile). Deleting a record that is
	// already gone is not an error.
	Delete(ctx context.Context, userID, remoteID string) error
}

// Registry holds the fixed set of entity importers keyed by kind.
type Registry struct {
	importers map[models.Kind]Importer
	order     []models.Kind
}

// NewRegistry builds the registry over the given store. chunkDays caps
// the date span of one remote call and must match the remote API's
// limit.
func NewRegistry(store Store, chunkDays int) *Registry {
	if chunkDays <= 0 || chunkDays > misfit.MaxQueryDays {
		chunkDays = misfit.MaxQueryDays
	}
	all := []Importer{
		&profileImporter{store: store},
		&deviceImporter{store: store},
		&summaryImporter{store: store, chunkDays: chunkDays},
		&goalImporter{store: store, chunkDays: chunkDays},
		&sessionImporter{store: store, chunkDays: chunkDays},
		&sleepImporter{store: store, chunkDays: chunkDays},
	}
	r := &Registry{importers: make(map[models.Kind]Importer, len(all))}
	for _, imp := range all {
		r.importers[imp.Kind()] = imp
		r.order = append(r.order, imp.Kind())
	}
	return r
}

// ForKind returns the importer for a notification kind.
func (r *Registry) ForKind(kind models.Kind) (Importer, bool) {
	imp, ok := r.importers[kind]
	return imp, ok
}

// Kinds returns all registered kinds in historical-import order.
func (r *Registry) Kinds() []models.Kind {
	return r.order
}

// ProcessMessage applies one notification message through the importer
// matching its action: deletes remove the local record, creates and
// updates re-import it from the remote API.
func ProcessMessage(ctx context.Context, imp Importer, client misfit.Client, userID string, msg models.Message) (Outcome, error) {
	switch msg.Action {
	case models.ActionDeleted:
		return Outcome{Absent: true}, imp.Delete(ctx, userID, msg.ID)
	case models.ActionCreated, models.ActionUpdated:
		return imp.ImportOne(ctx, client, userID, msg.ID)
	default:
		return Outcome{}, fmt.Errorf("%w: %q", ErrUnknownAction, msg.Action)
	}
}
