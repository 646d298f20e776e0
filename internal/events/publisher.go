// PowerAtlas - Global Power Generation Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poweratlas

package events

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"

	"github.com/tomtom215/poweratlas/internal/logging"
	"github.com/tomtom215/poweratlas/internal/metrics"
	"github.com/tomtom215/poweratlas/internal/models"
)

// Publisher emits domain events.
type Publisher struct {
	pub message.Publisher
	now func() time.Time
}

// NewPublisher creates a publisher writing to pub.
func NewPublisher(pub message.Publisher) *Publisher {
	return &Publisher{pub: pub, now: time.Now}
}

// FacilityUpdated publishes a facility.updated event for f.
func (p *Publisher) FacilityUpdated(ctx context.Context, f *models.Facility) error {
	if f == nil {
		return fmt.Errorf("publish %s: nil facility", TopicFacilityUpdated)
	}

	ev := FacilityUpdatedEvent{
		EventID:    watermill.NewUUID(),
		FacilityID: f.ID,
		Facility:   *f,
		RequestID:  logging.RequestIDFromContext(ctx),
		OccurredAt: p.now().UTC(),
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode %s: %w", TopicFacilityUpdated, err)
	}

	msg := message.NewMessage(ev.EventID, payload)
	msg.Metadata.Set("facility_id", f.ID)
	if ev.RequestID != "" {
		msg.Metadata.Set("request_id", ev.RequestID)
	}
	msg.SetContext(ctx)

	if err := p.pub.Publish(TopicFacilityUpdated, msg); err != nil {
		return fmt.Errorf("publish %s: %w", TopicFacilityUpdated, err)
	}
	metrics.EventsPublished.WithLabelValues(TopicFacilityUpdated).Inc()
	return nil
}
