// Misfitsync - Misfit Cloud API Integration and Sync Engine
// Copyright 2026 ORCAS (orcasgit)
// SPDX-License-Identifier: BSD-2-Clause
// https://github.com/orcasgit/misfitsync

package tasks

import (
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"

	"github.com/orcasgit/misfitsync/internal/config"
	"github.com/orcasgit/misfitsync/internal/logging"
	"github.com/orcasgit/misfitsync/internal/metrics"
	"github.com/orcasgit/misfitsync/internal/misfit"
	"github.com/orcasgit/misfitsync/internal/sync"
)

// Worker owns the task handlers. One worker serves all topics; the
// router provides per-handler goroutines.
type Worker struct {
	store      sync.Store
	dispatcher *sync.Dispatcher
	registry   *sync.Registry
	clients    misfit.ClientFactory
	sched      *Scheduler
	cfg        *config.MisfitConfig
	log        zerolog.Logger
}

// NewWorker wires the task handlers.
func NewWorker(store sync.Store, dispatcher *sync.Dispatcher, registry *sync.Registry, clients misfit.ClientFactory, sched *Scheduler, cfg *config.MisfitConfig) *Worker {
	return &Worker{
		store:      store,
		dispatcher: dispatcher,
		registry:   registry,
		clients:    clients,
		sched:      sched,
		cfg:        cfg,
		log:        logging.With().Str("component", "worker").Logger(),
	}
}

// Register attaches all handlers to the queue.
func (w *Worker) Register(q *Queue) {
	q.AddHandler("notifications", TopicNotifications, w.HandleNotification)
	q.AddHandler("historical_import", TopicHistoricalImport, w.HandleHistoricalImport)
	q.AddHandler("kind_import", TopicKindImport, w.HandleKindImport)
}

// retryAfterRateLimit re-schedules msg on topic when err is a rate
// limit response. Returns true when it did.
func (w *Worker) retryAfterRateLimit(topic string, msg *message.Message, err error) bool {
	rl, ok := misfit.AsRateLimit(err)
	if !ok {
		return false
	}
	delay := sync.RetryDelay(rl.Reset, time.Now(), w.cfg.MaxRetryJitter)
	metrics.RateLimitRetries.Inc()
	w.log.Warn().
		Str("topic", topic).
		Str("message_id", msg.UUID).
		Time("reset", rl.Reset).
		Dur("delay", delay).
		Msg("Rate limited, rescheduling")
	w.sched.Schedule(topic, msg, delay)
	return true
}

// HandleNotification processes one webhook body through the
// dispatcher. Rate limited batches are re-run whole; invalid envelopes
// and contract violations are terminal.
func (w *Worker) HandleNotification(msg *message.Message) error {
	task, err := decode[NotificationTask](msg)
	if err != nil {
		return err
	}
	if err := w.dispatcher.Process(msg.Context(), task.Body); err != nil {
		if w.retryAfterRateLimit(TopicNotifications, msg, err) {
			return nil
		}
		return fmt.Errorf("notification processing failed: %w", err)
	}
	return nil
}

// HandleHistoricalImport fans a user's backfill out into one task per
// entity kind over the configured historic window.
func (w *Worker) HandleHistoricalImport(msg *message.Message) error {
	task, err := decode[HistoricalImportTask](msg)
	if err != nil {
		return err
	}

	end := sync.DateOf(time.Now())
	start := end.AddDate(0, 0, -w.cfg.HistoricDays)

	for _, kind := range w.registry.Kinds() {
		kindMsg, err := NewMessage(KindImportTask{
			Kind:   kind,
			UserID: task.UserID,
			Start:  start,
			End:    end,
		})
		if err != nil {
			return err
		}
		if err := w.sched.pub.Publish(TopicKindImport, kindMsg); err != nil {
			return fmt.Errorf("failed to publish %s import: %w", kind, err)
		}
	}

	w.log.Info().
		Str("user_id", task.UserID).
		Time("start", start).
		Time("end", end).
		Msg("Historical import fanned out")
	return nil
}

// HandleKindImport runs one kind's backfill for one user. The unit is
// atomic from the queue's perspective: a rate limit mid-range
// reschedules the whole task, and the import's existence filtering
// makes the re-run converge instead of duplicating.
func (w *Worker) HandleKindImport(msg *message.Message) error {
	task, err := decode[KindImportTask](msg)
	if err != nil {
		return err
	}

	acct, ok, err := w.store.LinkedAccountByUserID(msg.Context(), task.UserID)
	if err != nil {
		return err
	}
	if !ok {
		// The user unlinked between fan-out and execution.
		w.log.Warn().Str("user_id", task.UserID).Msg("Skipping import for unlinked user")
		return nil
	}

	imp, ok := w.registry.ForKind(task.Kind)
	if !ok {
		return fmt.Errorf("no importer for kind %q", task.Kind)
	}

	started := time.Now()
	client := w.clients(acct.AccessToken)
	n, err := imp.ImportRange(msg.Context(), client, task.UserID, task.Start, task.End, false)
	if err != nil {
		if w.retryAfterRateLimit(TopicKindImport, msg, err) {
			return nil
		}
		return fmt.Errorf("%s import failed: %w", task.Kind, err)
	}

	metrics.ObserveImport(string(task.Kind), started)
	metrics.RecordsImported.WithLabelValues(string(task.Kind)).Add(float64(n))
	w.log.Info().
		Str("user_id", task.UserID).
		Str("kind", string(task.Kind)).
		Int("records", n).
		Msg("Historical import completed")
	return nil
}
