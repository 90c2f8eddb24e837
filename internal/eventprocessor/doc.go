// DCICFLIX - Hybrid Movie Recommendation Service
// Copyright 2026 DCICFLIX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/giuliagiacomodonato/dcicflix

/*
Package eventprocessor keeps the recommendation snapshot fresh by listening to
opinion events published on NATS.

Whenever a user clicks or rates a movie, the opinions service publishes a JSON
message on the configured subject:

	{"userId": "u1", "movieId": "m1", "movieTitle": "Heat",
	 "type": "rating", "rating": 4.5, "timestamp": "2026-01-02T10:00:00Z",
	 "source": "web"}

Messages are consumed through a Watermill router. Each valid event nudges a
Debouncer, which calls the engine's Refresh once the bus has been quiet for
the debounce period (or after MaxWait, whichever comes first). Invalid
messages are acknowledged and counted so they never block the subscription.

The subscription is a core NATS queue subscription by default. With
JetStream enabled it becomes a durable consumer, optionally bound to an
existing stream.

Both the Listener and the Debouncer implement suture.Service and run under
the messaging layer of the supervisor tree.
*/
package eventprocessor
