// DCICFLIX - Hybrid Movie Recommendation Service
// Copyright 2026 DCICFLIX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/giuliagiacomodonato/dcicflix

/*
Package api serves the recommendation engine over HTTP with chi.

Routes (all GET unless noted):

	/api/v1/health                            health and snapshot status
	/api/v1/health/live                       liveness probe
	/api/v1/health/ready                      readiness probe (503 until servable)
	/api/v1/recommendations?userId=&n=        personalized, or top rated without userId
	/api/v1/recommendations/top?n=&genre=&excludeUserId=
	/api/v1/recommendations/similar/{title}?n=&selfExclude=&useInteractions=
	/api/v1/recommendations/genre/{genre}?n=&excludeUserId=
	/api/v1/recommendations/favorite-genre/{userId}?n=
	/api/v1/recommendations/unfinished/{userId}?n=
	/api/v1/recommendations/status            engine status
	POST /api/v1/recommendations/refresh      rebuild the snapshot
	/metrics                                  Prometheus

The same recommendation routes and /health are also served without the
/api/v1 prefix. Those return the flat bodies of the first API generation,
e.g. {"movie": "Heat", "recommendations": [...], "count": 10}, and
{"error": "..."} on failure. Versioned routes wrap the same data in
APIResponse.

Errors map to statuses in errorStatus. A valid query with no matches, such
as an unknown genre, is a 200 with an empty list and code EMPTY_RESULT.

Responses of the user-independent endpoints are cached per snapshot ID
through cache.Store, and computed against the same snapshot the key names.
Results that read live user history are not cached.
*/
package api
