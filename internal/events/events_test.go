// PowerAtlas - Global Power Generation Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poweratlas

package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/poweratlas/internal/logging"
	"github.com/tomtom215/poweratlas/internal/metrics"
	"github.com/tomtom215/poweratlas/internal/models"
)

func startListener(t *testing.T, bus *Bus, l *Listener) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Serve(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Error("listener did not stop")
		}
		_ = bus.Close()
	})

	select {
	case <-l.Running():
	case <-time.After(5 * time.Second):
		t.Fatal("listener did not start")
	}
}

func TestFacilityUpdated_RoundTrip(t *testing.T) {
	bus := NewBus(8)
	l := NewListener(bus)

	var mu sync.Mutex
	received := make(map[string][]*FacilityUpdatedEvent)
	var wg sync.WaitGroup
	wg.Add(2)
	for _, name := range []string{"cache-flush", "broadcast"} {
		name := name
		l.OnFacilityUpdated(name, func(ctx context.Context, ev *FacilityUpdatedEvent) error {
			mu.Lock()
			received[name] = append(received[name], ev)
			mu.Unlock()
			if logging.RequestIDFromContext(ctx) != "req-42" {
				t.Errorf("%s: request id not propagated", name)
			}
			wg.Done()
			return nil
		})
	}
	startListener(t, bus, l)

	capacity := 200.0
	f := &models.Facility{ID: "A", Name: "Alpha", CapacityMW: &capacity}
	ctx := logging.ContextWithRequestID(context.Background(), "req-42")
	before := testutil.ToFloat64(metrics.EventsPublished.WithLabelValues(TopicFacilityUpdated))

	if err := NewPublisher(bus.Publisher()).FacilityUpdated(ctx, f); err != nil {
		t.Fatalf("FacilityUpdated: %v", err)
	}

	waitCh := make(chan struct{})
	go func() { wg.Wait(); close(waitCh) }()
	select {
	case <-waitCh:
	case <-time.After(5 * time.Second):
		t.Fatal("handlers were not called")
	}

	mu.Lock()
	defer mu.Unlock()
	for name, evs := range received {
		if len(evs) != 1 {
			t.Errorf("%s received %d events, want 1", name, len(evs))
			continue
		}
		if evs[0].FacilityID != "A" || evs[0].Facility.Capacity() != 200 {
			t.Errorf("%s got %+v", name, evs[0])
		}
	}
	if got := testutil.ToFloat64(metrics.EventsPublished.WithLabelValues(TopicFacilityUpdated)); got != before+1 {
		t.Errorf("events published = %v, want %v", got, before+1)
	}
}

func TestListener_HandlerErrorDoesNotBlock(t *testing.T) {
	bus := NewBus(8)
	l := NewListener(bus)

	calls := make(chan string, 4)
	l.OnFacilityUpdated("failing", func(ctx context.Context, ev *FacilityUpdatedEvent) error {
		calls <- ev.FacilityID
		return errors.New("boom")
	})
	startListener(t, bus, l)

	pub := NewPublisher(bus.Publisher())
	for _, id := range []string{"A", "B"} {
		if err := pub.FacilityUpdated(context.Background(), &models.Facility{ID: id}); err != nil {
			t.Fatalf("FacilityUpdated: %v", err)
		}
	}

	for _, want := range []string{"A", "B"} {
		select {
		case got := <-calls:
			if got != want {
				t.Errorf("got %s, want %s", got, want)
			}
		case <-time.After(5 * time.Second):
			t.Fatalf("event %s not delivered after handler error", want)
		}
	}
}

func TestListener_MalformedPayloadDropped(t *testing.T) {
	bus := NewBus(8)
	l := NewListener(bus)

	called := make(chan struct{}, 1)
	l.OnFacilityUpdated("h", func(ctx context.Context, ev *FacilityUpdatedEvent) error {
		called <- struct{}{}
		return nil
	})
	startListener(t, bus, l)

	if err := bus.Publisher().Publish(TopicFacilityUpdated, message.NewMessage("bad", []byte("not json"))); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if err := NewPublisher(bus.Publisher()).FacilityUpdated(context.Background(), &models.Facility{ID: "ok"}); err != nil {
		t.Fatalf("FacilityUpdated: %v", err)
	}

	select {
	case <-called:
	case <-time.After(5 * time.Second):
		t.Fatal("valid event after malformed one was not handled")
	}
	select {
	case <-called:
		t.Error("malformed payload reached the handler")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestPublisher_NilFacility(t *testing.T) {
	t.Parallel()
	bus := NewBus(1)
	defer bus.Close()

	if err := NewPublisher(bus.Publisher()).FacilityUpdated(context.Background(), nil); err == nil {
		t.Error("expected error for nil facility")
	}
}

func TestDecodeFacilityUpdated(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		payload string
		wantErr bool
	}{
		{"valid", `{"event_id":"e","facility_id":"A","facility":{"gppd_idnr":"A"}}`, false},
		{"missing id", `{"event_id":"e"}`, true},
		{"not json", `{`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeFacilityUpdated([]byte(tt.payload))
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
