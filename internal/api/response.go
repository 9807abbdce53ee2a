// Misfitsync - Misfit Cloud API Integration and Sync Engine
// Copyright 2026 ORCAS (orcasgit)
// SPDX-License-Identifier: BSD-2-Clause
// https://github.com/orcasgit/misfitsync

// Package api provides the HTTP surface: the webhook intake, the
// historical import trigger and operational endpoints.
package api

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/orcasgit/misfitsync/internal/logging"
)

// APIResponse is the response wrapper used by all JSON endpoints.
type APIResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
}

// APIError carries a machine-readable code and a human-readable
// message.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, resp APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logging.Error().Err(err).Msg("Failed to encode response")
	}
}

func writeSuccess(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, APIResponse{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, APIResponse{Success: false, Error: &APIError{Code: code, Message: message}})
}
