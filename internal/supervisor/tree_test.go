// PowerAtlas - Global Power Generation Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poweratlas

package supervisor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tomtom215/poweratlas/internal/events"
	"github.com/tomtom215/poweratlas/internal/models"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// countingService runs until canceled, failing the first fails starts.
type countingService struct {
	name    string
	fails   int32
	starts  atomic.Int32
	stopped atomic.Int32
}

func (s *countingService) Serve(ctx context.Context) error {
	n := s.starts.Add(1)
	defer s.stopped.Add(1)
	if n <= s.fails {
		return errors.New("simulated failure")
	}
	<-ctx.Done()
	return ctx.Err()
}

func (s *countingService) String() string { return s.name }

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestTreeConfigDefaults(t *testing.T) {
	t.Parallel()
	tree, err := NewSupervisorTree(quietLogger(), TreeConfig{ShutdownTimeout: 3 * time.Second})
	if err != nil {
		t.Fatalf("NewSupervisorTree: %v", err)
	}
	want := DefaultTreeConfig()
	want.ShutdownTimeout = 3 * time.Second
	if tree.config != want {
		t.Errorf("config = %+v, want %+v", tree.config, want)
	}
	if tree.Root() == nil {
		t.Error("root supervisor is nil")
	}
}

func TestTreeRunsEveryLayer(t *testing.T) {
	t.Parallel()
	tree, err := NewSupervisorTree(quietLogger(), TreeConfig{ShutdownTimeout: time.Second})
	if err != nil {
		t.Fatalf("NewSupervisorTree: %v", err)
	}

	svcs := []*countingService{{name: "listener"}, {name: "hub"}, {name: "http"}}
	tree.AddEventService(svcs[0])
	tree.AddLiveService(svcs[1])
	tree.AddAPIService(svcs[2])

	ctx, cancel := context.WithCancel(context.Background())
	done := tree.ServeBackground(ctx)

	for _, s := range svcs {
		s := s
		waitFor(t, s.name+" to start", func() bool { return s.starts.Load() == 1 })
	}

	cancel()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("tree did not stop")
	}
	for _, s := range svcs {
		if s.stopped.Load() != 1 {
			t.Errorf("%s stopped %d times, want 1", s.name, s.stopped.Load())
		}
	}
	if report, err := tree.UnstoppedServiceReport(); err != nil || len(report) != 0 {
		t.Errorf("unstopped services = %v (err %v), want none", report, err)
	}
}

func TestTreeRestartsFailedService(t *testing.T) {
	t.Parallel()
	tree, err := NewSupervisorTree(quietLogger(), TreeConfig{
		FailureThreshold: 10,
		FailureBackoff:   10 * time.Millisecond,
		ShutdownTimeout:  time.Second,
	})
	if err != nil {
		t.Fatalf("NewSupervisorTree: %v", err)
	}

	flaky := &countingService{name: "flaky", fails: 2}
	steady := &countingService{name: "steady"}
	tree.AddEventService(flaky)
	tree.AddAPIService(steady)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := tree.ServeBackground(ctx)

	waitFor(t, "flaky service to recover", func() bool { return flaky.starts.Load() >= 3 })
	if steady.starts.Load() != 1 {
		t.Errorf("steady service started %d times; a failure in another layer restarted it", steady.starts.Load())
	}

	cancel()
	<-done
}

func TestTreeSupervisesEventListener(t *testing.T) {
	t.Parallel()
	bus := events.NewBus(8)
	t.Cleanup(func() { _ = bus.Close() })

	got := make(chan string, 1)
	listener := events.NewListener(bus)
	listener.OnFacilityUpdated("record", func(_ context.Context, ev *events.FacilityUpdatedEvent) error {
		got <- ev.FacilityID
		return nil
	})

	tree, err := NewSupervisorTree(quietLogger(), TreeConfig{ShutdownTimeout: time.Second})
	if err != nil {
		t.Fatalf("NewSupervisorTree: %v", err)
	}
	tree.AddEventService(listener)

	ctx, cancel := context.WithCancel(context.Background())
	done := tree.ServeBackground(ctx)
	defer func() {
		cancel()
		<-done
	}()

	select {
	case <-listener.Running():
	case <-time.After(2 * time.Second):
		t.Fatal("listener never started")
	}

	pub := events.NewPublisher(bus.Publisher())
	if err := pub.FacilityUpdated(context.Background(), &models.Facility{ID: "USA0001", Name: "Plant"}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case id := <-got:
		if id != "USA0001" {
			t.Errorf("facility id = %q, want USA0001", id)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("event was not delivered")
	}
}
