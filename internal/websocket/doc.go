// PowerAtlas - Global Power Generation Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poweratlas

/*
Package websocket provides the live view transport.

Each connected browser gets a Client that owns a filterstate.Coordinator.
The browser drives its filter selection with small JSON commands and the
server pushes every result generation back over the same socket.

# Client Messages

	{"type":"set_country","country":"USA"}     // null selects all countries
	{"type":"set_fuel","fuel":1}               // null selects all fuels
	{"type":"set_include_micro","include_micro":true}
	{"type":"refresh"}
	{"type":"ping"}

Inbound messages are throttled per client with a token bucket
(golang.org/x/time/rate). Messages over the limit are answered with an
error message and otherwise ignored.

# Server Messages

	{"type":"filter_changed","generation":3,"data":{"country":"USA","fuel":null,"include_micro":false}}
	{"type":"capacity_by_fuel","generation":3,"data":[...]}
	{"type":"country_fuel_capacity","generation":3,"data":[...]}
	{"type":"facilities","generation":3,"data":{"markers":[...],"clusters":[...]}}
	{"type":"error","generation":3,"data":{"kind":"facilities","message":"...","retryable":true}}
	{"type":"facility_updated","data":{...}}
	{"type":"pong"}

Only results whose generation is current are pushed, so a client can render
whatever arrives without comparing generations itself.

# Hub

The Hub tracks connected clients and broadcasts facility_updated. A client
that receives facility_updated refreshes its coordinator, so its charts and
map pick up the edit under a new generation.

Hub.Serve blocks until its context is cancelled and is meant to run under a
suture supervisor. On shutdown every client send channel is closed, which
makes the write pump send a close frame.

# Backpressure

Each client has a bounded send buffer. A full buffer drops the message for
that client and counts websocket_errors_total{error_type="send_buffer_full"};
a broadcast to a full client unregisters it.
*/
package websocket
