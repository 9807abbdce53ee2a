// Misfitsync - Misfit Cloud API Integration and Sync Engine
// Copyright 2026 ORCAS (orcasgit)
// SPDX-License-Identifier: BSD-2-Clause
// https://github.com/orcasgit/misfitsync

package models

import "time"

// SleepPhase classifies a single sleep segment.
type SleepPhase int

// Sleep phases reported by the Misfit API.
const (
	PhaseAwake     SleepPhase = 1
	PhaseSleep     SleepPhase = 2
	PhaseDeepSleep SleepPhase = 3
)

// Valid reports whether p is one of the known sleep phases.
func (p SleepPhase) Valid() bool {
	return p >= PhaseAwake && p <= PhaseDeepSleep
}

func (p SleepPhase) String() string {
	switch p {
	case PhaseAwake:
		return "awake"
	case PhaseSleep:
		return "sleep"
	case PhaseDeepSleep:
		return "deep sleep"
	default:
		return "unknown"
	}
}

// Sleep is a recorded sleep session. It owns a set of SleepSegment
// children which are replaced wholesale on every update; segments have
// no lifecycle independent of their parent.
type Sleep struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	AutoDetected bool      `json:"auto_detected"`
	StartTime    time.Time `json:"start_time"`
	Duration     int       `json:"duration"` // seconds
}

// SleepSegment is one phase interval within a sleep session, unique per
// (sleep, timestamp).
type SleepSegment struct {
	SleepID string     `json:"sleep_id"`
	Time    time.Time  `json:"time"`
	Phase   SleepPhase `json:"phase"`
}
