// Misfitsync - Misfit Cloud API Integration and Sync Engine
// Copyright 2026 ORCAS (orcasgit)
// SPDX-License-Identifier: BSD-2-Clause
// https://github.com/orcasgit/misfitsync

package models

import "time"

// Kind identifies the entity kind named in a notification message.
// The values are the plural resource names used on the wire.
type Kind string

// Notification message kinds.
const (
	KindProfiles Kind = "profiles"
	KindDevices  Kind = "devices"
	KindSessions Kind = "sessions"
	KindSleeps   Kind = "sleeps"
	KindGoals    Kind = "goals"
	KindSummary  Kind = "summaries" // historical import only, never notified
)

// Action is the remote-side event named in a notification message.
type Action string

// Notification message actions.
const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// Envelope is the signed container delivered to the webhook endpoint.
// It either confirms a subscription handshake or carries a JSON-encoded
// list of Messages in the Message field.
type Envelope struct {
	Type      string `json:"Type"`
	MessageID string `json:"MessageId"`
	Message   string `json:"Message"`
	Timestamp string `json:"Timestamp"`
	Signature string `json:"Signature"`
}

// Envelope types.
const (
	EnvelopeNotification             = "Notification"
	EnvelopeSubscriptionConfirmation = "SubscriptionConfirmation"
)

// Message is one create/update/delete event inside a notification
// envelope. OwnerID is the Misfit account the event belongs to.
type Message struct {
	Kind      Kind      `json:"type"`
	Action    Action    `json:"action"`
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	UpdatedAt time.Time `json:"updated_at"`
}
