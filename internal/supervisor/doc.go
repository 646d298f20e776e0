// PowerAtlas - Global Power Generation Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poweratlas

/*
Package supervisor runs the PowerAtlas long-lived services under a suture v4
tree.

	root ("poweratlas")
	├── events ("event-layer")
	│   └── events.Listener (watermill router: cache flush, live broadcast)
	├── live ("live-layer")
	│   └── websocket.Hub
	└── api ("api-layer")
	    └── services.HTTPServerService

A crashed service is restarted by its own layer supervisor, so a failing
event handler does not take the HTTP server down with it. Supervisor events
(start, failure, backoff) are logged through sutureslog into the zerolog
pipeline.

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
	    ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	tree.AddEventService(listener)
	tree.AddLiveService(hub)
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	err = tree.Serve(ctx) // returns when ctx is canceled
*/
package supervisor
