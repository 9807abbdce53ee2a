// Misfitsync - Misfit Cloud API Integration and Sync Engine
// Copyright 2026 ORCAS (orcasgit)
// SPDX-License-Identifier: BSD-2-Clause
// https://github.com/orcasgit/misfitsync

package misfit

import (
	"fmt"
	"time"
)

// Date is a calendar date on the wire, encoded as "2006-01-02". Some
// endpoints return a full timestamp instead; both are accepted.
type Date struct {
	time.Time
}

// UnmarshalJSON parses "2006-01-02" dates with an RFC 3339 fallback.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' {
		s = s[1 : len(s)-1]
	}
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", s, err)
	}
	d.Time = t
	return nil
}

// MarshalJSON encodes the date as "2006-01-02".
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format("2006-01-02") + `"`), nil
}

// Midnight returns the date truncated to UTC midnight, the form all
// local date columns use.
func (d Date) Midnight() time.Time {
	return time.Date(d.Year(), d.Month(), d.Time.Day(), 0, 0, 0, 0, time.UTC)
}

// Profile is the remote profile payload.
type Profile struct {
	UserID   string `json:"userId"`
	Email    string `json:"email"`
	Birthday Date   `json:"birthday"`
	Gender   string `json:"gender"`
	// Not always present despite being documented as required.
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// Device is the remote device payload. Accounts without a device yield
// an empty ID.
type Device struct {
	ID              string `json:"id"`
	DeviceType      string `json:"deviceType"`
	SerialNumber    string `json:"serialNumber"`
	FirmwareVersion string `json:"firmwareVersion"`
	BatteryLevel    int    `json:"batteryLevel"`
	// Undocumented but observed in practice.
	LastSyncTime *time.Time `json:"lastSyncTime,omitempty"`
}

// Goal is the remote goal payload. Goals occasionally arrive without an
// id and must be dropped by the caller.
type Goal struct {
	ID           string  `json:"id"`
	Date         Date    `json:"date"`
	Points       float64 `json:"points"`
	TargetPoints int     `json:"targetPoints"`
	// Undocumented but observed in practice.
	TimeZoneOffset int `json:"timeZoneOffset,omitempty"`
}

// Session is the remote workout session payload.
type Session struct {
	ID           string    `json:"id"`
	ActivityType string    `json:"activityType"`
	StartTime    time.Time `json:"startTime"`
	Duration     int       `json:"duration"`
	Points       *float64  `json:"points"`
	Steps        *int      `json:"steps"`
	Calories     *float64  `json:"calories"`
	Distance     *float64  `json:"distance"`
}

// SleepDetail is one segment inside a sleep payload.
type SleepDetail struct {
	Datetime time.Time `json:"datetime"`
	Value    int       `json:"value"` // 1 awake, 2 sleep, 3 deep sleep
}

// Sleep is the remote sleep session payload with its full segment list.
type Sleep struct {
	ID           string        `json:"id"`
	AutoDetected bool          `json:"autoDetected"`
	StartTime    time.Time     `json:"startTime"`
	Duration     int           `json:"duration"`
	SleepDetails []SleepDetail `json:"sleepDetails"`
}

// Summary is one day of the remote summary payload (detail=true).
type Summary struct {
	Date             Date    `json:"date"`
	Points           float64 `json:"points"`
	Steps            int     `json:"steps"`
	Calories         float64 `json:"calories"`
	ActivityCalories float64 `json:"activityCalories"`
	Distance         float64 `json:"distance"`
}
