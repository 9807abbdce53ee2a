// Misfitsync - Misfit Cloud API Integration and Sync Engine
// Copyright 2026 ORCAS (orcasgit)
// SPDX-License-Identifier: BSD-2-Clause
// https://github.com/orcasgit/misfitsync

// Package sync implements the notification and historical-sync
// reconciliation engine.
//
// It ingests signed push notification envelopes from the Misfit cloud,
// routes each per-entity create/update/delete message to the matching
// entity importer, and reconciles remote data against local records
// with natural-key upserts. Historical import chunks long date ranges
// into API-sized calls, deduplicates the union of overlapping chunks
// and bulk-inserts previously unseen records.
//
// The package is deliberately free of transport and storage concerns:
// the remote API is the misfit.Client collaborator and persistence is
// the Store interface. Idempotent upserts are the only concurrency
// control: every unit of work may be re-run from the top at any time
// (at-least-once delivery, rate-limit rescheduling) without creating
// duplicates.
package sync
