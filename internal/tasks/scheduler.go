// Misfitsync - Misfit Cloud API Integration and Sync Engine
// Copyright 2026 ORCAS (orcasgit)
// SPDX-License-Identifier: BSD-2-Clause
// https://github.com/orcasgit/misfitsync

package tasks

import (
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"

	"github.com/orcasgit/misfitsync/internal/logging"
)

// Scheduler re-publishes messages after a delay. It backs the rate
// limit recovery path: a handler that hits the remote limit hands its
// own message here and acks, and the scheduler puts an identical
// message back on the topic once the limit window has reset.
type Scheduler struct {
	pub message.Publisher
	log zerolog.Logger

	mu      sync.Mutex
	stopped bool
	timers  map[*time.Timer]struct{}
}

// NewScheduler creates a scheduler publishing through pub.
func NewScheduler(pub message.Publisher) *Scheduler {
	return &Scheduler{
		pub:    pub,
		log:    logging.With().Str("component", "scheduler").Logger(),
		timers: make(map[*time.Timer]struct{}),
	}
}

// Schedule publishes a copy of msg to topic after delay. A zero delay
// publishes on the next timer tick. Scheduling after Stop is a no-op.
func (s *Scheduler) Schedule(topic string, msg *message.Message, delay time.Duration) {
	copied := msg.Copy()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}

	var timer *time.Timer
	timer = time.AfterFunc(delay, func() {
		s.mu.Lock()
		delete(s.timers, timer)
		s.mu.Unlock()

		if err := s.pub.Publish(topic, copied); err != nil {
			s.log.Error().Err(err).
				Str("topic", topic).
				Str("message_id", copied.UUID).
				Msg("Failed to publish rescheduled task")
		}
	})
	s.timers[timer] = struct{}{}

	s.log.Info().
		Str("topic", topic).
		Str("message_id", copied.UUID).
		Dur("delay", delay).
		Msg("Task rescheduled")
}

// Stop cancels all pending timers.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	for timer := range s.timers {
		timer.Stop()
	}
	s.timers = make(map[*time.Timer]struct{})
}
