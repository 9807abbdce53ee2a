// Misfitsync - Misfit Cloud API Integration and Sync Engine
// Copyright 2026 ORCAS (orcasgit)
// SPDX-License-Identifier: BSD-2-Clause
// https://github.com/orcasgit/misfitsync

package api

import (
	"context"
	"io"
	"net/http"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/orcasgit/misfitsync/internal/logging"
	"github.com/orcasgit/misfitsync/internal/metrics"
	"github.com/orcasgit/misfitsync/internal/sync"
	"github.com/orcasgit/misfitsync/internal/tasks"
)

// maxWebhookBody caps the accepted notification body size.
const maxWebhookBody = 1 << 20 // 1 MiB

// Pinger reports storage liveness for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler serves the HTTP endpoints. The webhook does no verification
// or parsing of its own: bodies are enqueued as-is and validated
// inside the task pipeline, keeping the intake path fast and the
// response time independent of remote API latency.
type Handler struct {
	store    sync.Store
	health   Pinger
	pub      message.Publisher
	validate *validator.Validate
	log      zerolog.Logger
}

// NewHandler wires the HTTP handlers.
func NewHandler(store sync.Store, health Pinger, pub message.Publisher) *Handler {
	return &Handler{
		store:    store,
		health:   health,
		pub:      pub,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      logging.With().Str("component", "api").Logger(),
	}
}

// Webhook accepts a Misfit notification envelope and enqueues it.
// Always returns 200 for readable bodies; verification failures
// surface later, in the processing pipeline.
func (h *Handler) Webhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable_body", "failed to read request body")
		return
	}
	metrics.EnvelopesReceived.Inc()

	msg, err := tasks.NewMessage(tasks.NotificationTask{Body: body})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "enqueue_failed", "failed to build task")
		return
	}
	if err := h.pub.Publish(tasks.TopicNotifications, msg); err != nil {
		h.log.Error().Err(err).Msg("Failed to enqueue notification")
		writeError(w, http.StatusInternalServerError, "enqueue_failed", "failed to enqueue notification")
		return
	}

	h.log.Debug().Str("message_id", msg.UUID).Int("bytes", len(body)).Msg("Notification enqueued")
	writeSuccess(w, http.StatusOK, map[string]string{"message_id": msg.UUID})
}

// historicalImportRequest triggers a full backfill for one linked
// user.
type historicalImportRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

// HistoricalImport enqueues a historical backfill for the named user.
func (h *Handler) HistoricalImport(w http.ResponseWriter, r *http.Request) {
	var req historicalImportRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxWebhookBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "failed to decode request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	_, ok, err := h.store.LinkedAccountByUserID(r.Context(), req.UserID)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to look up linked account")
		writeError(w, http.StatusInternalServerError, "lookup_failed", "failed to look up linked account")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "not_linked", "no linked account for user")
		return
	}

	msg, err := tasks.NewMessage(tasks.HistoricalImportTask{UserID: req.UserID})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "enqueue_failed", "failed to build task")
		return
	}
	if err := h.pub.Publish(tasks.TopicHistoricalImport, msg); err != nil {
		h.log.Error().Err(err).Msg("Failed to enqueue historical import")
		writeError(w, http.StatusInternalServerError, "enqueue_failed", "failed to enqueue import")
		return
	}

	h.log.Info().Str("user_id", req.UserID).Str("message_id", msg.UUID).Msg("Historical import queued")
	writeSuccess(w, http.StatusAccepted, map[string]string{"message_id": msg.UUID})
}

// Health reports liveness of the service and its storage.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.health.Ping(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "storage_down", "database unreachable")
		return
	}
	writeSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
}
