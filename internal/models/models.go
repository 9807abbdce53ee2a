// Misfitsync - Misfit Cloud API Integration and Sync Engine
// Copyright 2026 ORCAS (orcasgit)
// SPDX-License-Identifier: BSD-2-Clause
// https://github.com/orcasgit/misfitsync

// Package models provides the local data model for synced Misfit entities.
//
// All entities are keyed by the identifier assigned by the Misfit cloud
// unless noted otherwise. Summary has a composite natural key of
// (user, date) and SleepSegment of (sleep, timestamp). Every entity is
// exclusively owned by the local user record it references.
package models

import "time"

// Gender is the gender reported on a Misfit profile.
type Gender string

// Gender values accepted by the Misfit API.
const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// ActivityType is the activity recorded for a session (workout).
type ActivityType string

// Activity types reported by the Misfit API.
const (
	ActivityCycling    ActivityType = "cycling"
	ActivitySwimming   ActivityType = "swimming"
	ActivityWalking    ActivityType = "walking"
	ActivityTennis     ActivityType = "tennis"
	ActivityBasketball ActivityType = "basketball"
	ActivitySoccer     ActivityType = "soccer"
)

// LinkedAccount binds a local user to a Misfit account and its OAuth
// access token. At most one linked account exists per local user; it is
// created on successful OAuth completion, updated on re-authorization
// and deleted on unlink.
type LinkedAccount struct {
	MisfitUserID string     `json:"misfit_user_id"`
	UserID       string     `json:"user_id"`
	AccessToken  string     `json:"-"`
	LastUpdate   *time.Time `json:"last_update,omitempty"`
}

// Profile is a user's Misfit profile. One per local user, mutated in
// place on every import.
type Profile struct {
	UserID   string    `json:"user_id"`
	Email    string    `json:"email"`
	Birthday time.Time `json:"birthday"`
	Gender   Gender    `json:"gender"`
	Name     string    `json:"name,omitempty"`
	Avatar   *string   `json:"avatar,omitempty"`
}

// Device is a Misfit tracker device. The schema allows many per user
// but in practice each user has exactly one; imports always target the
// user's single device row.
type Device struct {
	ID              string     `json:"id"`
	UserID          string     `json:"user_id"`
	DeviceType      string     `json:"device_type"`
	SerialNumber    string     `json:"serial_number"`
	FirmwareVersion string     `json:"firmware_version"`
	BatteryLevel    int        `json:"battery_level"`
	LastSyncTime    *time.Time `json:"last_sync_time,omitempty"`
}

// Goal is a daily points goal. The Misfit cloud occasionally returns
// goals without an id; such records are dropped before persistence.
type Goal struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	Date           time.Time `json:"date"`
	Points         float64   `json:"points"`
	TargetPoints   int       `json:"target_points"`
	TimeZoneOffset int       `json:"time_zone_offset"`
}

// Session is a recorded workout session.
type Session struct {
	ID           string       `json:"id"`
	UserID       string       `json:"user_id"`
	ActivityType ActivityType `json:"activity_type"`
	StartTime    time.Time    `json:"start_time"`
	Duration     int          `json:"duration"` // seconds
	Points       *float64     `json:"points,omitempty"`
	Steps        *int         `json:"steps,omitempty"`
	Calories     *float64     `json:"calories,omitempty"`
	Distance     *float64     `json:"distance,omitempty"` // miles
}

// Summary is the daily activity summary for one (user, date) pair and
// is always upserted on that composite key.
type Summary struct {
	UserID           string    `json:"user_id"`
	Date             time.Time `json:"date"`
	Points           float64   `json:"points"`
	Steps            int       `json:"steps"`
	Calories         float64   `json:"calories"`
	ActivityCalories float64   `json:"activity_calories"`
	Distance         float64   `json:"distance"` // miles
}
