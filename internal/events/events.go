// PowerAtlas - Global Power Generation Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poweratlas

package events

import (
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"

	"github.com/tomtom215/poweratlas/internal/logging"
	"github.com/tomtom215/poweratlas/internal/models"
)

// TopicFacilityUpdated is published after a facility update commits.
const TopicFacilityUpdated = "facility.updated"

// FacilityUpdatedEvent describes a committed facility update.
type FacilityUpdatedEvent struct {
	EventID    string          `json:"event_id"`
	FacilityID string          `json:"facility_id"`
	Facility   models.Facility `json:"facility"`
	RequestID  string          `json:"request_id,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// DecodeFacilityUpdated parses a facility.updated payload.
func DecodeFacilityUpdated(payload []byte) (*FacilityUpdatedEvent, error) {
	var ev FacilityUpdatedEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return nil, fmt.Errorf("decode %s: %w", TopicFacilityUpdated, err)
	}
	if ev.FacilityID == "" {
		return nil, fmt.Errorf("decode %s: missing facility_id", TopicFacilityUpdated)
	}
	return &ev, nil
}

// Bus is the in-process pub/sub shared by publishers and listeners.
type Bus struct {
	pubsub *gochannel.GoChannel
	logger watermill.LoggerAdapter
}

// NewBus creates a non-persistent bus. Events published while no listener
// is subscribed are dropped.
func NewBus(bufferSize int64) *Bus {
	if bufferSize <= 0 {
		bufferSize = 64
	}
	logger := watermill.NewSlogLogger(logging.NewSlogLogger().With("component", "events"))
	return &Bus{
		pubsub: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: bufferSize,
		}, logger),
		logger: logger,
	}
}

// Publisher returns the publishing side of the bus.
func (b *Bus) Publisher() message.Publisher {
	return b.pubsub
}

// Subscriber returns the subscribing side of the bus.
func (b *Bus) Subscriber() message.Subscriber {
	return b.pubsub
}

// Close closes the bus and every open subscription.
func (b *Bus) Close() error {
	return b.pubsub.Close()
}
