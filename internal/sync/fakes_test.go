// Misfitsync - Misfit Cloud API Integration and Sync Engine
// Copyright 2026 ORCAS (orcasgit)
// SPDX-License-Identifier: BSD-2-Clause
// https://github.com/orcasgit/misfitsync

package sync

import (
	"context"
	"time"

	"github.com/orcasgit/misfitsync/internal/misfit"
	"github.com/orcasgit/misfitsync/internal/models"
)

// fakeStore is an in-memory Store with the same upsert semantics the
// real database layer provides.
type fakeStore struct {
	accounts  map[string]models.LinkedAccount // by misfit user id
	profiles  map[string]models.Profile       // by user id
	devices   map[string]models.Device        // by user id
	goals     map[string]models.Goal          // by goal id
	sessions  map[string]models.Session       // by session id
	sleeps    map[string]models.Sleep         // by sleep id
	segments  map[string][]models.SleepSegment
	summaries map[string]map[time.Time]models.Summary // user id -> date
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		accounts:  make(map[string]models.LinkedAccount),
		profiles:  make(map[string]models.Profile),
		devices:   make(map[string]models.Device),
		goals:     make(map[string]models.Goal),
		sessions:  make(map[string]models.Session),
		sleeps:    make(map[string]models.Sleep),
		segments:  make(map[string][]models.SleepSegment),
		summaries: make(map[string]map[time.Time]models.Summary),
	}
}

func (s *fakeStore) LinkedAccountByMisfitID(_ context.Context, misfitUserID string) (*models.LinkedAccount, bool, error) {
	a, ok := s.accounts[misfitUserID]
	if !ok {
		return nil, false, nil
	}
	return &a, true, nil
}

func (s *fakeStore) LinkedAccountByUserID(_ context.Context, userID string) (*models.LinkedAccount, bool, error) {
	for _, a := range s.accounts {
		if a.UserID == userID {
			return &a, true, nil
		}
	}
	return nil, false, nil
}

func (s *fakeStore) UpsertLinkedAccount(_ context.Context, a *models.LinkedAccount) error {
	s.accounts[a.MisfitUserID] = *a
	return nil
}

func (s *fakeStore) DeleteLinkedAccount(_ context.Context, misfitUserID string) error {
	delete(s.accounts, misfitUserID)
	return nil
}

func (s *fakeStore) UpsertProfile(_ context.Context, p *models.Profile) (bool, error) {
	_, exists := s.profiles[p.UserID]
	s.profiles[p.UserID] = *p
	return !exists, nil
}

func (s *fakeStore) DeleteProfile(_ context.Context, userID string) error {
	delete(s.profiles, userID)
	return nil
}

func (s *fakeStore) UpsertDevice(_ context.Context, d *models.Device) (bool, error) {
	_, exists := s.devices[d.UserID]
	s.devices[d.UserID] = *d
	return !exists, nil
}

func (s *fakeStore) DeleteDevice(_ context.Context, id string) error {
	for userID, d := range s.devices {
		if d.ID == id {
			delete(s.devices, userID)
		}
	}
	return nil
}

func (s *fakeStore) UpsertGoal(_ context.Context, g *models.Goal) (bool, error) {
	_, exists := s.goals[g.ID]
	s.goals[g.ID] = *g
	return !exists, nil
}

func (s *fakeStore) InsertGoals(_ context.Context, goals []models.Goal) error {
	for _, g := range goals {
		s.goals[g.ID] = g
	}
	return nil
}

func (s *fakeStore) GoalIDsBetween(_ context.Context, userID string, start, end time.Time) (map[string]struct{}, error) {
	out := make(map[string]struct{})
	for id, g := range s.goals {
		if g.UserID == userID && !g.Date.Before(start) && !g.Date.After(end) {
			out[id] = struct{}{}
		}
	}
	return out, nil
}

func (s *fakeStore) DeleteGoal(_ context.Context, id string) error {
	delete(s.goals, id)
	return nil
}

func (s *fakeStore) UpsertSession(_ context.Context, sess *models.Session) (bool, error) {
	_, exists := s.sessions[sess.ID]
	s.sessions[sess.ID] = *sess
	return !exists, nil
}

func (s *fakeStore) InsertSessions(_ context.Context, sessions []models.Session) error {
	for _, sess := range sessions {
		s.sessions[sess.ID] = sess
	}
	return nil
}

func (s *fakeStore) SessionIDsBetween(_ context.Context, userID string, start, endExclusive time.Time) (map[string]struct{}, error) {
	out := make(map[string]struct{})
	for id, sess := range s.sessions {
		if sess.UserID == userID && !sess.StartTime.Before(start) && sess.StartTime.Before(endExclusive) {
			out[id] = struct{}{}
		}
	}
	return out, nil
}

func (s *fakeStore) DeleteSession(_ context.Context, id string) error {
	delete(s.sessions, id)
	return nil
}

func (s *fakeStore) UpsertSleep(_ context.Context, sl *models.Sleep) (bool, error) {
	_, exists := s.sleeps[sl.ID]
	s.sleeps[sl.ID] = *sl
	return !exists, nil
}

func (s *fakeStore) SleepIDsBetween(_ context.Context, userID string, start, endExclusive time.Time) (map[string]struct{}, error) {
	out := make(map[string]struct{})
	for id, sl := range s.sleeps {
		if sl.UserID == userID && !sl.StartTime.Before(start) && sl.StartTime.Before(endExclusive) {
			out[id] = struct{}{}
		}
	}
	return out, nil
}

func (s *fakeStore) DeleteSleepSegments(_ context.Context, sleepID string) error {
	delete(s.segments, sleepID)
	return nil
}

func (s *fakeStore) InsertSleepSegments(_ context.Context, segments []models.SleepSegment) error {
	for _, seg := range segments {
		s.segments[seg.SleepID] = append(s.segments[seg.SleepID], seg)
	}
	return nil
}

func (s *fakeStore) DeleteSleep(_ context.Context, id string) error {
	delete(s.sleeps, id)
	delete(s.segments, id)
	return nil
}

func (s *fakeStore) UpsertSummary(_ context.Context, sum *models.Summary) (bool, error) {
	byDate, ok := s.summaries[sum.UserID]
	if !ok {
		byDate = make(map[time.Time]models.Summary)
		s.summaries[sum.UserID] = byDate
	}
	_, exists := byDate[sum.Date]
	byDate[sum.Date] = *sum
	return !exists, nil
}

func (s *fakeStore) InsertSummaries(_ context.Context, summaries []models.Summary) error {
	for _, sum := range summaries {
		if _, err := s.UpsertSummary(context.Background(), &sum); err != nil {
			return err
		}
	}
	return nil
}

func (s *fakeStore) SummaryDatesBetween(_ context.Context, userID string, start, end time.Time) (map[time.Time]struct{}, error) {
	out := make(map[time.Time]struct{})
	for date := range s.summaries[userID] {
		if !date.Before(start) && !date.After(end) {
			out[date] = struct{}{}
		}
	}
	return out, nil
}

// fakeClient serves canned remote data and records range calls. A
// non-nil err is returned by every method.
type fakeClient struct {
	profile  *misfit.Profile
	device   *misfit.Device
	goals    map[string]misfit.Goal
	sessions map[string]misfit.Session
	sleeps   map[string]misfit.Sleep
	summary  []misfit.Summary

	err error

	// ranges records every range query as [start, end] pairs.
	ranges [][2]time.Time
}

func (c *fakeClient) Profile(context.Context) (*misfit.Profile, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.profile, nil
}

func (c *fakeClient) Device(context.Context) (*misfit.Device, error) {
	if c.err != nil {
		return nil, c.err
	}
	if c.device == nil {
		return &misfit.Device{}, nil
	}
	return c.device, nil
}

func (c *fakeClient) Goal(_ context.Context, id string) (*misfit.Goal, error) {
	if c.err != nil {
		return nil, c.err
	}
	g := c.goals[id]
	return &g, nil
}

func (c *fakeClient) Goals(_ context.Context, start, end time.Time) ([]misfit.Goal, error) {
	if c.err != nil {
		return nil, c.err
	}
	c.ranges = append(c.ranges, [2]time.Time{start, end})
	var out []misfit.Goal
	for _, g := range c.goals {
		d := g.Date.Midnight()
		if !d.Before(start) && !d.After(end) {
			out = append(out, g)
		}
	}
	return out, nil
}

func (c *fakeClient) Session(_ context.Context, id string) (*misfit.Session, error) {
	if c.err != nil {
		return nil, c.err
	}
	s := c.sessions[id]
	return &s, nil
}

func (c *fakeClient) Sessions(_ context.Context, start, end time.Time) ([]misfit.Session, error) {
	if c.err != nil {
		return nil, c.err
	}
	c.ranges = append(c.ranges, [2]time.Time{start, end})
	var out []misfit.Session
	for _, s := range c.sessions {
		d := DateOf(s.StartTime)
		if !d.Before(start) && !d.After(end) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (c *fakeClient) Sleep(_ context.Context, id string) (*misfit.Sleep, error) {
	if c.err != nil {
		return nil, c.err
	}
	s := c.sleeps[id]
	return &s, nil
}

func (c *fakeClient) Sleeps(_ context.Context, start, end time.Time) ([]misfit.Sleep, error) {
	if c.err != nil {
		return nil, c.err
	}
	c.ranges = append(c.ranges, [2]time.Time{start, end})
	var out []misfit.Sleep
	for _, s := range c.sleeps {
		d := DateOf(s.StartTime)
		if !d.Before(start) && !d.After(end) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (c *fakeClient) Summaries(_ context.Context, start, end time.Time, _ bool) ([]misfit.Summary, error) {
	if c.err != nil {
		return nil, c.err
	}
	c.ranges = append(c.ranges, [2]time.Time{start, end})
	var out []misfit.Summary
	for _, s := range c.summary {
		d := s.Date.Midnight()
		if !d.Before(start) && !d.After(end) {
			out = append(out, s)
		}
	}
	return out, nil
}
