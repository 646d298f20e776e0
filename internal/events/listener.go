// PowerAtlas - Global Power Generation Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poweratlas

package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"

	"github.com/tomtom215/poweratlas/internal/logging"
	"github.com/tomtom215/poweratlas/internal/metrics"
)

// FacilityUpdatedHandler reacts to one facility.updated event.
type FacilityUpdatedHandler func(ctx context.Context, ev *FacilityUpdatedEvent) error

// Listener dispatches facility.updated events to registered handlers.
// It implements suture.Service.
type Listener struct {
	subscriber message.Subscriber
	logger     watermill.LoggerAdapter

	mu       sync.Mutex
	handlers map[string]FacilityUpdatedHandler
	running  chan struct{}
}

// NewListener creates a listener reading from bus.
func NewListener(bus *Bus) *Listener {
	return &Listener{
		subscriber: bus.Subscriber(),
		logger:     bus.logger,
		handlers:   make(map[string]FacilityUpdatedHandler),
		running:    make(chan struct{}),
	}
}

// OnFacilityUpdated registers fn under name. Handlers must be registered
// before Serve starts; names must be unique.
func (l *Listener) OnFacilityUpdated(name string, fn FacilityUpdatedHandler) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.handlers[name] = fn
}

// Running is closed once the first router run has subscribed every handler.
func (l *Listener) Running() <-chan struct{} {
	return l.running
}

// Serve runs the router until ctx is cancelled.
func (l *Listener) Serve(ctx context.Context) error {
	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: 10 * time.Second}, l.logger)
	if err != nil {
		return fmt.Errorf("create event router: %w", err)
	}
	router.AddMiddleware(middleware.Recoverer)

	l.mu.Lock()
	for name, fn := range l.handlers {
		router.AddConsumerHandler(name, TopicFacilityUpdated, l.subscriber, l.wrap(name, fn))
	}
	running := l.running
	count := len(l.handlers)
	l.mu.Unlock()

	go func() {
		select {
		case <-router.Running():
			l.markRunning(running)
		case <-ctx.Done():
		}
	}()

	logging.Info().Int("handlers", count).Msg("Event listener started")
	if err := router.Run(ctx); err != nil {
		return fmt.Errorf("event router: %w", err)
	}
	return nil
}

func (l *Listener) markRunning(ch chan struct{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	select {
	case <-ch:
	default:
		close(ch)
	}
}

// wrap decodes the payload and records the outcome. Decode and handler
// errors are logged and the message is acked anyway.
func (l *Listener) wrap(name string, fn FacilityUpdatedHandler) message.NoPublishHandlerFunc {
	return func(msg *message.Message) error {
		ev, err := DecodeFacilityUpdated(msg.Payload)
		if err != nil {
			metrics.EventsHandled.WithLabelValues(TopicFacilityUpdated, "decode_error").Inc()
			logging.Warn().Err(err).Str("handler", name).Str("message_id", msg.UUID).Msg("Dropping malformed event")
			return nil
		}

		ctx := msg.Context()
		if ev.RequestID != "" {
			ctx = logging.ContextWithRequestID(ctx, ev.RequestID)
		}
		if err := fn(ctx, ev); err != nil {
			metrics.EventsHandled.WithLabelValues(TopicFacilityUpdated, "error").Inc()
			logging.Ctx(ctx).Warn().Err(err).Str("handler", name).Str("facility_id", ev.FacilityID).Msg("Event handler failed")
			return nil
		}
		metrics.EventsHandled.WithLabelValues(TopicFacilityUpdated, "ok").Inc()
		return nil
	}
}

// String names the service in supervisor logs.
func (l *Listener) String() string {
	return "event-listener"
}
