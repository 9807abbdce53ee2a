// Misfitsync - Misfit Cloud API Integration and Sync Engine
// Copyright 2026 ORCAS (orcasgit)
// SPDX-License-Identifier: BSD-2-Clause
// https://github.com/orcasgit/misfitsync

package tasks

import (
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/orcasgit/misfitsync/internal/models"
)

// Topics carrying task messages. Each work unit is retryable as a
// whole: a rate limited handler re-publishes its own message after the
// reset delay instead of failing.
const (
	TopicNotifications      = "misfit.notifications"
	TopicHistoricalImport   = "misfit.import.historical"
	TopicKindImport         = "misfit.import.historical.kind"
	DefaultPoisonTopic      = "misfit.poison"
	defaultSubscribeBufSize = 256
)

// NotificationTask carries one raw webhook body. The body is kept
// opaque here; signature verification happens in the handler so a
// forged payload fails inside the processing pipeline, not at intake.
type NotificationTask struct {
	Body []byte `json:"body"`
}

// HistoricalImportTask requests a full historical backfill for one
// linked user across all entity kinds.
type HistoricalImportTask struct {
	UserID string `json:"user_id"`
}

// KindImportTask requests a historical backfill of one entity kind
// over one date range. Both dates are inclusive.
type KindImportTask struct {
	Kind   models.Kind `json:"kind"`
	UserID string      `json:"user_id"`
	Start  time.Time   `json:"start"`
	End    time.Time   `json:"end"`
}

// NewMessage wraps a task payload in a watermill message with a fresh
// UUID.
func NewMessage(payload any) (*message.Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal task payload: %w", err)
	}
	return message.NewMessage(uuid.NewString(), data), nil
}

func decode[T any](msg *message.Message) (T, error) {
	var task T
	if err := json.Unmarshal(msg.Payload, &task); err != nil {
		return task, fmt.Errorf("failed to decode task payload: %w", err)
	}
	return task, nil
}
