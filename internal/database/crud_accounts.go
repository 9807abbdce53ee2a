// Misfitsync - Misfit Cloud API Integration and Sync Engine
// Copyright 2026 ORCAS (orcasgit)
// SPDX-License-Identifier: BSD-2-Clause
// https://github.com/orcasgit/misfitsync

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/orcasgit/misfitsync/internal/models"
)

// exists reports whether the query returns at least one row.
func (db *DB) exists(ctx context.Context, query string, args ...any) (bool, error) {
	var one int
	err := db.conn.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func scanLinkedAccount(row *sql.Row) (*models.LinkedAccount, bool, error) {
	var a models.LinkedAccount
	var lastUpdate sql.NullTime
	err := row.Scan(&a.MisfitUserID, &a.UserID, &a.AccessToken, &lastUpdate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to scan linked account: %w", err)
	}
	if lastUpdate.Valid {
		t := lastUpdate.Time
		a.LastUpdate = &t
	}
	return &a, true, nil
}

// LinkedAccountByMisfitID resolves a Misfit account id to the linked
// local account.
func (db *DB) LinkedAccountByMisfitID(ctx context.Context, misfitUserID string) (*models.LinkedAccount, bool, error) {
	start := time.Now()
	row := db.conn.QueryRowContext(ctx,
		`SELECT misfit_user_id, user_id, access_token, last_update
		 FROM linked_accounts WHERE misfit_user_id = ?`, misfitUserID)
	a, ok, err := scanLinkedAccount(row)
	observe("select", "linked_accounts", start, err)
	return a, ok, err
}

// LinkedAccountByUserID resolves a local user id to their linked
// account.
func (db *DB) LinkedAccountByUserID(ctx context.Context, userID string) (*models.LinkedAccount, bool, error) {
	start := time.Now()
	row := db.conn.QueryRowContext(ctx,
		`SELECT misfit_user_id, user_id, access_token, last_update
		 FROM linked_accounts WHERE user_id = ?`, userID)
	a, ok, err := scanLinkedAccount(row)
	observe("select", "linked_accounts", start, err)
	return a, ok, err
}

// UpsertLinkedAccount inserts or replaces a linked account keyed by
// misfit user id.
func (db *DB) UpsertLinkedAccount(ctx context.Context, a *models.LinkedAccount) error {
	start := time.Now()
	var lastUpdate any
	if a.LastUpdate != nil {
		lastUpdate = *a.LastUpdate
	}
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO linked_accounts (misfit_user_id, user_id, access_token, last_update)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (misfit_user_id) DO UPDATE SET
			user_id = EXCLUDED.user_id,
			access_token = EXCLUDED.access_token,
			last_update = EXCLUDED.last_update`,
		a.MisfitUserID, a.UserID, a.AccessToken, lastUpdate)
	observe("upsert", "linked_accounts", start, err)
	if err != nil {
		return fmt.Errorf("failed to upsert linked account: %w", err)
	}
	return nil
}

// DeleteLinkedAccount removes the link for a misfit user id.
func (db *DB) DeleteLinkedAccount(ctx context.Context, misfitUserID string) error {
	start := time.Now()
	_, err := db.conn.ExecContext(ctx,
		`DELETE FROM linked_accounts WHERE misfit_user_id = ?`, misfitUserID)
	observe("delete", "linked_accounts", start, err)
	if err != nil {
		return fmt.Errorf("failed to delete linked account: %w", err)
	}
	return nil
}
