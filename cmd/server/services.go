// Misfitsync - Misfit Cloud API Integration and Sync Engine
// Copyright 2026 ORCAS (orcasgit)
// SPDX-License-Identifier: BSD-2-Clause
// https://github.com/orcasgit/misfitsync

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/orcasgit/misfitsync/internal/config"
	"github.com/orcasgit/misfitsync/internal/logging"
	"github.com/orcasgit/misfitsync/internal/tasks"
)

// queueService runs the task router under supervision.
type queueService struct {
	queue *tasks.Queue
}

func (s *queueService) Serve(ctx context.Context) error {
	return s.queue.Run(ctx)
}

func (s *queueService) String() string { return "task-queue" }

// httpService runs the HTTP server under supervision with graceful
// shutdown on context cancellation.
type httpService struct {
	server          *http.Server
	shutdownTimeout time.Duration
}

func newHTTPService(handler http.Handler, cfg *config.ServerConfig) *httpService {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &httpService{
		server: &http.Server{
			Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       timeout,
			WriteTimeout:      timeout,
			IdleTimeout:       2 * timeout,
		},
		shutdownTimeout: 10 * time.Second,
	}
}

func (s *httpService) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			logging.Warn().Err(err).Msg("HTTP server shutdown was not clean")
		}
		return ctx.Err()
	}
}

func (s *httpService) String() string { return "http-server" }
