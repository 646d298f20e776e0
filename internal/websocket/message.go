// PowerAtlas - Global Power Generation Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poweratlas

package websocket

import (
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/poweratlas/internal/database"
	"github.com/tomtom215/poweratlas/internal/filterstate"
	"github.com/tomtom215/poweratlas/internal/models"
)

// Message types for WebSocket communication
const (
	MessageTypeSetCountry      = "set_country"
	MessageTypeSetFuel         = "set_fuel"
	MessageTypeSetIncludeMicro = "set_include_micro"
	MessageTypeRefresh         = "refresh"
	MessageTypePing            = "ping"

	MessageTypePong            = "pong"
	MessageTypeFilterChanged   = "filter_changed"
	MessageTypeCapacityByFuel  = string(filterstate.KindCapacityByFuel)
	MessageTypeCountryFuel     = string(filterstate.KindCountryFuel)
	MessageTypeFacilities      = string(filterstate.KindFacilities)
	MessageTypeError           = "error"
	MessageTypeFacilityUpdated = "facility_updated"
)

// Message is a server to client message.
type Message struct {
	Type       string      `json:"type"`
	Generation uint64      `json:"generation,omitempty"`
	Data       interface{} `json:"data,omitempty"`
}

// ClientMessage is a client to server command.
type ClientMessage struct {
	Type         string  `json:"type" validate:"required"`
	Country      *string `json:"country" validate:"omitempty,countrycode"`
	Fuel         *int    `json:"fuel" validate:"omitempty,fuelcode"`
	IncludeMicro *bool   `json:"include_micro"`
}

// ErrorData is the payload of an error message.
type ErrorData struct {
	Code      string `json:"code"`
	Kind      string `json:"kind,omitempty"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
}

// Error codes sent to clients.
const (
	ErrorCodeInvalidMessage = "INVALID_MESSAGE"
	ErrorCodeRateLimited    = "RATE_LIMITED"
	ErrorCodeFetchFailed    = "FETCH_FAILED"
)

// DecodeClientMessage parses and normalizes one inbound frame. Country codes
// are trimmed and upper-cased; an empty country selects all countries.
func DecodeClientMessage(data []byte) (*ClientMessage, error) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Country != nil {
		c := strings.ToUpper(strings.TrimSpace(*msg.Country))
		if c == "" {
			msg.Country = nil
		} else {
			msg.Country = &c
		}
	}
	return &msg, nil
}

// resultMessage converts a coordinator result to the message pushed to the
// client.
func resultMessage(r filterstate.Result) Message {
	if r.Err != nil {
		return Message{
			Type:       MessageTypeError,
			Generation: r.Generation,
			Data: ErrorData{
				Code:      ErrorCodeFetchFailed,
				Kind:      string(r.Kind),
				Message:   r.Err.Error(),
				Retryable: database.IsStoreError(r.Err),
			},
		}
	}
	return Message{Type: string(r.Kind), Generation: r.Generation, Data: r.Data()}
}

func filterChangedMessage(ch filterstate.Change) Message {
	return Message{Type: MessageTypeFilterChanged, Generation: ch.Generation, Data: ch.Spec}
}

func errorMessage(code, message string) Message {
	return Message{Type: MessageTypeError, Data: ErrorData{Code: code, Message: message}}
}

func facilityUpdatedMessage(f *models.Facility) Message {
	return Message{Type: MessageTypeFacilityUpdated, Data: f}
}

// MarshalMessage converts a message to JSON
func MarshalMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}
