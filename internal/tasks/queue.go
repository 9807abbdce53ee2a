// Misfitsync - Misfit Cloud API Integration and Sync Engine
// Copyright 2026 ORCAS (orcasgit)
// SPDX-License-Identifier: BSD-2-Clause
// https://github.com/orcasgit/misfitsync

// Package tasks runs the asynchronous work units of the sync engine on
// an in-process watermill pub/sub: webhook notification processing and
// historical imports.
//
// Handler errors are terminal: the failed message is routed to the
// poison topic and acknowledged. Transient rate limit responses never
// reach the router as errors; the handler re-publishes its own message
// after the advertised reset delay and acks the original.
package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/rs/zerolog"

	"github.com/orcasgit/misfitsync/internal/config"
	"github.com/orcasgit/misfitsync/internal/logging"
	"github.com/orcasgit/misfitsync/internal/metrics"
)

// Queue bundles the in-process pub/sub with a router carrying panic
// recovery and poison queue middleware.
type Queue struct {
	pubsub      *gochannel.GoChannel
	router      *message.Router
	poisonTopic string
	log         zerolog.Logger
}

// NewQueue builds the pub/sub and router. Call RegisterHandlers before
// Run.
func NewQueue(cfg *config.QueueConfig) (*Queue, error) {
	log := logging.With().Str("component", "tasks").Logger()
	wmLogger := newLoggerAdapter(log)

	buffer := cfg.OutputBuffer
	if buffer <= 0 {
		buffer = defaultSubscribeBufSize
	}
	pubsub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: buffer,
		Persistent:          false,
	}, wmLogger)

	router, err := message.NewRouter(message.RouterConfig{
		CloseTimeout: 30 * time.Second,
	}, wmLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create router: %w", err)
	}

	poisonTopic := cfg.PoisonTopic
	if poisonTopic == "" {
		poisonTopic = DefaultPoisonTopic
	}

	router.AddMiddleware(middleware.Recoverer)

	// PoisonQueue publishes the failed message to the poison topic and
	// acks the original, so one bad message cannot wedge a topic.
	poison, err := middleware.PoisonQueue(pubsub, poisonTopic)
	if err != nil {
		return nil, fmt.Errorf("failed to create poison queue: %w", err)
	}
	router.AddMiddleware(poison)

	return &Queue{
		pubsub:      pubsub,
		router:      router,
		poisonTopic: poisonTopic,
		log:         log,
	}, nil
}

// Publisher returns the queue's publisher side.
func (q *Queue) Publisher() message.Publisher { return q.pubsub }

// Subscriber returns the queue's subscriber side.
func (q *Queue) Subscriber() message.Subscriber { return q.pubsub }

// PoisonTopic returns the topic terminal failures are routed to.
func (q *Queue) PoisonTopic() string { return q.poisonTopic }

// AddHandler registers a consuming handler on a topic. Failures count
// toward the poison metric before the middleware routes them away.
func (q *Queue) AddHandler(name, topic string, handler message.NoPublishHandlerFunc) {
	q.router.AddConsumerHandler(name, topic, q.pubsub, func(msg *message.Message) error {
		if err := handler(msg); err != nil {
			q.log.Error().Err(err).
				Str("handler", name).
				Str("message_id", msg.UUID).
				Msg("Task failed, routing to poison topic")
			metrics.PoisonMessages.WithLabelValues(q.poisonTopic).Inc()
			return err
		}
		return nil
	})
}

// Run starts the router and blocks until ctx is cancelled or the
// router stops.
func (q *Queue) Run(ctx context.Context) error {
	return q.router.Run(ctx)
}

// Running returns a channel closed once the router is running, used by
// tests and startup ordering.
func (q *Queue) Running() chan struct{} {
	return q.router.Running()
}

// Close shuts down the router and pub/sub.
func (q *Queue) Close() error {
	if err := q.router.Close(); err != nil {
		return fmt.Errorf("failed to close router: %w", err)
	}
	return q.pubsub.Close()
}

// loggerAdapter bridges watermill's logging to zerolog.
type loggerAdapter struct {
	log zerolog.Logger
}

func newLoggerAdapter(log zerolog.Logger) watermill.LoggerAdapter {
	return &loggerAdapter{log: log}
}

func (a *loggerAdapter) with(fields watermill.LogFields) zerolog.Logger {
	ctx := a.log.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return ctx.Logger()
}

func (a *loggerAdapter) Error(msg string, err error, fields watermill.LogFields) {
	log := a.with(fields)
	log.Error().Err(err).Msg(msg)
}

func (a *loggerAdapter) Info(msg string, fields watermill.LogFields) {
	log := a.with(fields)
	log.Info().Msg(msg)
}

func (a *loggerAdapter) Debug(msg string, fields watermill.LogFields) {
	log := a.with(fields)
	log.Debug().Msg(msg)
}

func (a *loggerAdapter) Trace(msg string, fields watermill.LogFields) {
	log := a.with(fields)
	log.Trace().Msg(msg)
}

func (a *loggerAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &loggerAdapter{log: a.with(fields)}
}
