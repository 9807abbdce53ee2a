// Misfitsync - Misfit Cloud API Integration and Sync Engine
// Copyright 2026 ORCAS (orcasgit)
// SPDX-License-Identifier: BSD-2-Clause
// https://github.com/orcasgit/misfitsync

// The misfitsync server receives Misfit cloud push notifications,
// keeps linked users' fitness data synchronized and serves the import
// trigger API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/thejerf/suture/v4"

	"github.com/orcasgit/misfitsync/internal/api"
	"github.com/orcasgit/misfitsync/internal/config"
	"github.com/orcasgit/misfitsync/internal/database"
	"github.com/orcasgit/misfitsync/internal/logging"
	"github.com/orcasgit/misfitsync/internal/misfit"
	"github.com/orcasgit/misfitsync/internal/sync"
	"github.com/orcasgit/misfitsync/internal/tasks"
)

func main() {
	if err := run(); err != nil {
		logging.Error().Err(err).Msg("Server exited with error")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logging.Info().Msg("Starting misfitsync")

	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Warn().Err(err).Msg("Failed to close database")
		}
	}()

	clients := sync.NewBreakerFactory(
		misfit.NewHTTPFactory(cfg.Misfit.APIBaseURL, cfg.Misfit.RequestsPerHour))
	registry := sync.NewRegistry(db, cfg.Misfit.DaysPerChunk)
	dispatcher := sync.NewDispatcher(db, registry, clients, cfg.Misfit.WebhookSecret)

	queue, err := tasks.NewQueue(&cfg.Queue)
	if err != nil {
		return fmt.Errorf("failed to create task queue: %w", err)
	}
	sched := tasks.NewScheduler(queue.Publisher())
	defer sched.Stop()

	worker := tasks.NewWorker(db, dispatcher, registry, clients, sched, &cfg.Misfit)
	worker.Register(queue)

	handler := api.NewHandler(db, db, queue.Publisher())
	router := api.NewRouter(handler, &cfg.Server)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sup := suture.New("misfitsync", suture.Spec{
		EventHook: supervisorEventHook,
	})
	sup.Add(&queueService{queue: queue})
	sup.Add(newHTTPService(router, &cfg.Server))

	logging.Info().
		Str("addr", fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)).
		Msg("Supervision tree starting")

	err = sup.Serve(ctx)
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("supervisor stopped: %w", err)
	}
	logging.Info().Msg("Shutdown complete")
	return nil
}

// supervisorEventHook logs suture lifecycle events through zerolog.
func supervisorEventHook(evt suture.Event) {
	switch evt.Type() {
	case suture.EventTypeServiceTerminate, suture.EventTypeServicePanic:
		logging.Error().Interface("event", evt.Map()).Msg("Supervised service failed")
	default:
		logging.Debug().Interface("event", evt.Map()).Msg("Supervisor event")
	}
}
