// DCICFLIX - Hybrid Movie Recommendation Service
// Copyright 2026 DCICFLIX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/giuliagiacomodonato/dcicflix

/*
Package supervisor runs the long-lived parts of the recommender under a
suture v4 supervisor tree.

The tree has three layers so that a failure in one does not stop the others:

	root ("dcicflix")
	├── data-layer
	│   └── RefreshService (startup load and periodic rebuilds)
	├── messaging-layer (only when events are enabled)
	│   ├── Debouncer
	│   └── Listener (opinion events from NATS)
	└── api-layer
	    └── HTTPServerService

A crashing opinion listener is restarted with backoff while the API keeps
serving the last snapshot.

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
	    ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
	    return err
	}
	tree.AddDataService(services.NewRefreshService(engine, refreshCfg, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    return err
	}

Supervisor events (restarts, failures, backoff) are logged through sutureslog
into the zerolog pipeline.
*/
package supervisor
