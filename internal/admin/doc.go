// Package admin serves the operational HTTP endpoints.
//
//	GET /api/status   executor size, queue depth, busy workers, connection counters
//	GET /api/workers  per-worker state (pool executor only)
//	GET /metrics      Prometheus exposition
//	    /ws           WebSocket feed of pool lifecycle events
//
// The admin listener is separate from the TCP front end so that the two-route
// request table stays exactly as it is.
package admin
