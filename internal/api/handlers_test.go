// Misfitsync - Misfit Cloud API Integration and Sync Engine
// Copyright 2026 ORCAS (orcasgit)
// SPDX-License-Identifier: BSD-2-Clause
// https://github.com/orcasgit/misfitsync

package api

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"

	"github.com/orcasgit/misfitsync/internal/config"
	"github.com/orcasgit/misfitsync/internal/models"
	"github.com/orcasgit/misfitsync/internal/sync"
	"github.com/orcasgit/misfitsync/internal/tasks"
)

type stubStore struct {
	sync.Store
	acct *models.LinkedAccount
}

func (s *stubStore) LinkedAccountByUserID(_ context.Context, userID string) (*models.LinkedAccount, bool, error) {
	if s.acct != nil && s.acct.UserID == userID {
		return s.acct, true, nil
	}
	return nil, false, nil
}

type stubPinger struct {
	err error
}

func (p *stubPinger) Ping(context.Context) error { return p.err }

type capturePublisher struct {
	byTopic map[string][]*message.Message
	err     error
}

func newCapturePublisher() *capturePublisher {
	return &capturePublisher{byTopic: make(map[string][]*message.Message)}
}

func (p *capturePublisher) Publish(topic string, messages ...*message.Message) error {
	if p.err != nil {
		return p.err
	}
	p.byTopic[topic] = append(p.byTopic[topic], messages...)
	return nil
}

func (p *capturePublisher) Close() error { return nil }

func testServer(store *stubStore, pinger *stubPinger, pub *capturePublisher) *httptest.Server {
	h := NewHandler(store, pinger, pub)
	router := NewRouter(h, &config.ServerConfig{
		RateLimitReqs:   1000,
		RateLimitWindow: time.Minute,
	})
	return httptest.NewServer(router)
}

func TestWebhookEnqueuesBody(t *testing.T) {
	pub := newCapturePublisher()
	srv := testServer(&stubStore{}, &stubPinger{}, pub)
	defer srv.Close()

	body := []byte(`{"Type":"Notification","Message":"[]","Signature":"x"}`)
	resp, err := http.Post(srv.URL+"/misfit/webhook", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	enqueued := pub.byTopic[tasks.TopicNotifications]
	if len(enqueued) != 1 {
		t.Fatalf("enqueued %d messages, want 1", len(enqueued))
	}
	var task tasks.NotificationTask
	if err := json.Unmarshal(enqueued[0].Payload, &task); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(task.Body, body) {
		t.Error("enqueued body differs from posted body")
	}
}

func TestWebhookEnqueueFailure(t *testing.T) {
	pub := newCapturePublisher()
	pub.err = errors.New("queue closed")
	srv := testServer(&stubStore{}, &stubPinger{}, pub)
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/misfit/webhook", "application/json", bytes.NewReader([]byte("{}")))
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", resp.StatusCode)
	}
}

func TestHistoricalImport(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		linked     bool
		wantStatus int
		wantQueued int
	}{
		{
			name:       "linked user accepted",
			body:       `{"user_id":"u1"}`,
			linked:     true,
			wantStatus: http.StatusAccepted,
			wantQueued: 1,
		},
		{
			name:       "unlinked user rejected",
			body:       `{"user_id":"ghost"}`,
			linked:     false,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "missing user id rejected",
			body:       `{}`,
			linked:     true,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed json rejected",
			body:       `{nope`,
			linked:     true,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &stubStore{}
			if tt.linked {
				store.acct = &models.LinkedAccount{MisfitUserID: "m1", UserID: "u1", AccessToken: "tok"}
			}
			pub := newCapturePublisher()
			srv := testServer(store, &stubPinger{}, pub)
			defer srv.Close()

			resp, err := http.Post(srv.URL+"/api/v1/import/historical", "application/json", bytes.NewReader([]byte(tt.body)))
			if err != nil {
				t.Fatal(err)
			}
			defer func() { _ = resp.Body.Close() }()

			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if got := len(pub.byTopic[tasks.TopicHistoricalImport]); got != tt.wantQueued {
				t.Errorf("queued = %d, want %d", got, tt.wantQueued)
			}
		})
	}
}

func TestHealth(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		srv := testServer(&stubStore{}, &stubPinger{}, newCapturePublisher())
		defer srv.Close()

		resp, err := http.Get(srv.URL + "/healthz")
		if err != nil {
			t.Fatal(err)
		}
		defer func() { _ = resp.Body.Close() }()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("status = %d, want 200", resp.StatusCode)
		}
	})

	t.Run("storage down", func(t *testing.T) {
		srv := testServer(&stubStore{}, &stubPinger{err: errors.New("closed")}, newCapturePublisher())
		defer srv.Close()

		resp, err := http.Get(srv.URL + "/healthz")
		if err != nil {
			t.Fatal(err)
		}
		defer func() { _ = resp.Body.Close() }()
		if resp.StatusCode != http.StatusServiceUnavailable {
			t.Errorf("status = %d, want 503", resp.StatusCode)
		}
	})
}

func TestMetricsEndpoint(t *testing.T) {
	srv := testServer(&stubStore{}, &stubPinger{}, newCapturePublisher())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}
