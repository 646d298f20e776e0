// PowerAtlas - Global Power Generation Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poweratlas

package websocket

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/tomtom215/poweratlas/internal/filterstate"
	"github.com/tomtom215/poweratlas/internal/logging"
	"github.com/tomtom215/poweratlas/internal/metrics"
	"github.com/tomtom215/poweratlas/internal/validation"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
)

// clientIDCounter gives clients a stable broadcast order.
var clientIDCounter atomic.Uint64

// Client is one live view connection and its filter state.
type Client struct {
	id   uint64
	hub  *Hub
	conn *websocket.Conn

	mu     sync.Mutex
	send   chan Message
	closed bool

	limiter     *rate.Limiter
	coordinator *filterstate.Coordinator
	unsubscribe func()
}

// NewClient creates a client for conn with its own coordinator. Register it
// with the hub and call Start to begin pumping.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	c := &Client{
		id:      clientIDCounter.Add(1),
		hub:     hub,
		conn:    conn,
		send:    make(chan Message, hub.sendBuffer),
		limiter: rate.NewLimiter(hub.limit, hub.burst),
	}
	c.coordinator = filterstate.New(hub.source, c, filterstate.WithProjector(hub.projector))
	c.unsubscribe = c.coordinator.Subscribe(func(ch filterstate.Change) {
		c.enqueue(filterChangedMessage(ch))
	})
	return c
}

// ID returns the client's unique identifier.
func (c *Client) ID() uint64 {
	return c.id
}

// Coordinator returns the client's filter coordinator.
func (c *Client) Coordinator() *filterstate.Coordinator {
	return c.coordinator
}

// Apply pushes a current coordinator result to the browser.
func (c *Client) Apply(r filterstate.Result) {
	c.enqueue(resultMessage(r))
}

// enqueue queues msg without blocking. It reports false when the client is
// closed or its buffer is full.
func (c *Client) enqueue(msg Message) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- msg:
		return true
	default:
		metrics.WSErrors.WithLabelValues("send_buffer_full").Inc()
		logging.Warn().
			Uint64("client_id", c.id).
			Str("message_type", msg.Type).
			Msg("websocket send buffer full, dropping message")
		return false
	}
}

// closeSend closes the send channel once; the write pump then sends a close
// frame.
func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// shutdown releases the coordinator after the connection is gone.
func (c *Client) shutdown() {
	c.unsubscribe()
	c.coordinator.Close()
}

// handleRaw throttles, decodes and dispatches one inbound frame.
func (c *Client) handleRaw(data []byte) {
	metrics.WSMessagesReceived.Inc()

	if !c.limiter.Allow() {
		metrics.WSErrors.WithLabelValues("rate_limited").Inc()
		c.enqueue(errorMessage(ErrorCodeRateLimited, "too many messages"))
		return
	}

	msg, err := DecodeClientMessage(data)
	if err != nil {
		metrics.WSErrors.WithLabelValues("decode").Inc()
		c.enqueue(errorMessage(ErrorCodeInvalidMessage, "message is not valid JSON"))
		return
	}
	c.handle(msg)
}

// handle applies a decoded command to the coordinator.
func (c *Client) handle(msg *ClientMessage) {
	if verr := validation.ValidateStruct(msg); verr != nil {
		c.enqueue(errorMessage(ErrorCodeInvalidMessage, verr.Error()))
		return
	}

	switch msg.Type {
	case MessageTypeSetCountry:
		c.coordinator.SetCountry(msg.Country)
	case MessageTypeSetFuel:
		c.coordinator.SetFuel(msg.Fuel)
	case MessageTypeSetIncludeMicro:
		if msg.IncludeMicro == nil {
			c.enqueue(errorMessage(ErrorCodeInvalidMessage, "include_micro is required"))
			return
		}
		c.coordinator.SetIncludeMicro(*msg.IncludeMicro)
	case MessageTypeRefresh:
		c.coordinator.Refresh()
	case MessageTypePing:
		c.enqueue(Message{Type: MessageTypePong})
	default:
		c.enqueue(errorMessage(ErrorCodeInvalidMessage, fmt.Sprintf("unknown message type %q", msg.Type)))
	}
}

// readPump pumps messages from the websocket connection to the coordinator
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		c.shutdown()
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logging.Error().Err(err).Msg("failed to set read deadline")
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				metrics.WSErrors.WithLabelValues("unexpected_close").Inc()
				logging.Error().Err(err).Msg("unexpected websocket close error")
			}
			return
		}
		c.handleRaw(data)
	}
}

// writePump pumps messages from the send channel to the websocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logging.Error().Err(err).Msg("failed to set write deadline")
				return
			}
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			payload, err := MarshalMessage(message)
			if err != nil {
				metrics.WSErrors.WithLabelValues("encode").Inc()
				logging.Error().Err(err).Str("message_type", message.Type).Msg("failed to encode websocket message")
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				metrics.WSErrors.WithLabelValues("write").Inc()
				return
			}
			metrics.WSMessagesSent.Inc()

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logging.Error().Err(err).Msg("failed to set write deadline for ping")
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Start begins reading and writing for the client
func (c *Client) Start() {
	go c.writePump()
	go c.readPump()
}
