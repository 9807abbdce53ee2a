// Misfitsync - Misfit Cloud API Integration and Sync Engine
// Copyright 2026 ORCAS (orcasgit)
// SPDX-License-Identifier: BSD-2-Clause
// https://github.com/orcasgit/misfitsync

package sync

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/orcasgit/misfitsync/internal/logging"
	"github.com/orcasgit/misfitsync/internal/metrics"
	"github.com/orcasgit/misfitsync/internal/misfit"
	"github.com/orcasgit/misfitsync/internal/models"
)

// ErrInvalidEnvelope reports a notification envelope that is malformed
// or fails signature verification. Poison, never retried.
var ErrInvalidEnvelope = errors.New("invalid notification envelope")

// Dispatcher routes the messages of one notification envelope to the
// matching entity importers and refreshes daily summaries for every
// date touched by a goal change. One batch is processed sequentially,
// in received order.
type Dispatcher struct {
	store   Store
	reg     *Registry
	clients misfit.ClientFactory
	secret  []byte
	log     zerolog.Logger
}

// NewDispatcher creates a dispatcher verifying envelopes against
// webhookSecret.
func NewDispatcher(store Store, reg *Registry, clients misfit.ClientFactory, webhookSecret string) *Dispatcher {
	return &Dispatcher{
		store:   store,
		reg:     reg,
		clients: clients,
		secret:  []byte(webhookSecret),
		log:     logging.With().Str("component", "dispatcher").Logger(),
	}
}

// summaryRange accumulates the dates touched by goal messages for one
// Misfit account. End is exclusive: one day past the latest goal date,
// matching the remote summary endpoint's range semantics.
type summaryRange struct {
	userID      string
	accessToken string
	start       time.Time
	end         time.Time
}

func (r *summaryRange) extend(date time.Time) {
	if date.Before(r.start) {
		r.start = date
	}
	if next := date.AddDate(0, 0, 1); next.After(r.end) {
		r.end = next
	}
}

// Process handles one raw notification body end to end: signature
// verification, message routing and the closing summary refresh.
//
// A *misfit.RateLimitError return means the whole batch must be
// re-run after the reset time; every other error is permanent.
func (d *Dispatcher) Process(ctx context.Context, body []byte) error {
	var env models.Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidEnvelope, err)
	}

	if !d.verifySignature([]byte(env.Message), env.Signature) {
		metrics.EnvelopesRejected.Inc()
		return fmt.Errorf("%w: signature verification failed", ErrInvalidEnvelope)
	}

	if env.Type == models.EnvelopeSubscriptionConfirmation {
		d.log.Info().Str("message_id", env.MessageID).Msg("Subscription confirmed")
		return nil
	}

	messages, err := decodeMessages([]byte(env.Message))
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidEnvelope, err)
	}

	ranges := make(map[string]*summaryRange)
	for _, msg := range messages {
		if err := d.processMessage(ctx, msg, ranges); err != nil {
			return err
		}
	}

	return d.refreshSummaries(ctx, ranges)
}

func (d *Dispatcher) processMessage(ctx context.Context, msg models.Message, ranges map[string]*summaryRange) error {
	acct, ok, err := d.store.LinkedAccountByMisfitID(ctx, msg.OwnerID)
	if err != nil {
		return err
	}
	if !ok {
		d.log.Warn().
			Str("owner_id", msg.OwnerID).
			Str("kind", string(msg.Kind)).
			Str("id", msg.ID).
			Msg("Notification for a user who is not in our database")
		metrics.MessagesSkipped.WithLabelValues("unknown_user").Inc()
		return nil
	}

	imp, ok := d.reg.ForKind(msg.Kind)
	if !ok {
		d.log.Error().
			Str("kind", string(msg.Kind)).
			Str("id", msg.ID).
			Msg("Unknown notification kind")
		metrics.MessagesSkipped.WithLabelValues("unknown_kind").Inc()
		return nil
	}

	client := d.clients(acct.AccessToken)
	out, err := ProcessMessage(ctx, imp, client, acct.UserID, msg)
	switch {
	case err == nil:
	case misfit.IsBadRequest(err):
		// A single rejected record must not sink the batch.
		d.log.Error().Err(err).
			Str("kind", string(msg.Kind)).
			Str("id", msg.ID).
			Msg("Remote rejected message entity")
		metrics.MessagesSkipped.WithLabelValues("bad_request").Inc()
		return nil
	default:
		return err
	}

	metrics.MessagesProcessed.WithLabelValues(string(msg.Kind), string(msg.Action)).Inc()

	if msg.Kind == models.KindGoals && !out.Absent && msg.Action != models.ActionDeleted {
		goal, ok := out.Entity.(*models.Goal)
		if !ok {
			return fmt.Errorf("goal import returned %T", out.Entity)
		}
		r, ok := ranges[msg.OwnerID]
		if !ok {
			r = &summaryRange{
				userID:      acct.UserID,
				accessToken: acct.AccessToken,
				start:       goal.Date,
				end:         goal.Date.AddDate(0, 0, 1),
			}
			ranges[msg.OwnerID] = r
		}
		r.extend(goal.Date)
	}
	return nil
}

// refreshSummaries re-imports daily summaries over every accumulated
// goal date range with overwrite, so changed goals are reflected in
// the per-day aggregates.
func (d *Dispatcher) refreshSummaries(ctx context.Context, ranges map[string]*summaryRange) error {
	if len(ranges) == 0 {
		return nil
	}
	imp, ok := d.reg.ForKind(models.KindSummary)
	if !ok {
		return fmt.Errorf("summary importer not registered")
	}
	for ownerID, r := range ranges {
		client := d.clients(r.accessToken)
		n, err := imp.ImportRange(ctx, client, r.userID, r.start, r.end, true)
		if err != nil {
			return err
		}
		d.log.Debug().
			Str("owner_id", ownerID).
			Time("start", r.start).
			Time("end", r.end).
			Int("count", n).
			Msg("Refreshed summaries")
	}
	return nil
}

// verifySignature checks the envelope's hex HMAC-SHA256 over the inner
// message payload.
func (d *Dispatcher) verifySignature(message []byte, signature string) bool {
	mac := hmac.New(sha256.New, d.secret)
	mac.Write(message)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(signature), []byte(expected))
}

// Sign computes the envelope signature for a message payload. Used by
// tests and by local tooling that replays notifications.
func Sign(message []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(message)
	return hex.EncodeToString(mac.Sum(nil))
}

// updatedAtLayouts are the timestamp forms observed in notification
// messages.
var updatedAtLayouts = []string{
	"2006-01-02 15:04:05 MST",
	time.RFC3339,
}

// decodeMessages parses the envelope's inner message list. Messages
// arrive with the remote camelCase field convention; keys are
// normalized before mapping so the local snake_case convention is used
// everywhere past this point.
func decodeMessages(payload []byte) ([]models.Message, error) {
	var raw []map[string]any
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode message list: %w", err)
	}

	messages := make([]models.Message, 0, len(raw))
	for _, m := range raw {
		fields := NormalizeKeys(m)
		msg := models.Message{
			Kind:    models.Kind(stringField(fields, "type")),
			Action:  models.Action(stringField(fields, "action")),
			ID:      stringField(fields, "id"),
			OwnerID: stringField(fields, "owner_id"),
		}
		if s := stringField(fields, "updated_at"); s != "" {
			for _, layout := range updatedAtLayouts {
				if t, err := time.Parse(layout, s); err == nil {
					msg.UpdatedAt = t
					break
				}
			}
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

func stringField(fields map[string]any, key string) string {
	s, _ := fields[key].(string)
	return s
}
