// Package metrics provides request and job metrics.
//
// Metrics collects client-side statistics about request latency,
// success/failure rates, response status lines and throughput (RPS).
// PoolCollector exports worker pool counters to Prometheus.
//
// # Basic Usage
//
//	m := metrics.New()
//
//	start := time.Now()
//	// ... send a request ...
//	m.RecordSuccess("200 OK", time.Since(start))
//
//	snap := m.Snapshot()
//	fmt.Printf("Total: %d, RPS: %.2f, P99: %v\n",
//	    snap.TotalRequests, snap.RPS, snap.P99Latency)
//
// # Prometheus
//
//	reg := prometheus.NewRegistry()
//	col, err := metrics.NewPoolCollector(reg, "hello")
//	pool, err := worker.Build(4, worker.WithCollector(col))
//
// All PoolCollector methods accept a nil receiver, so instrumentation can be
// left out without extra branches at the call sites.
//
// # Thread Safety
//
// All operations use atomic counters or a mutex and are safe for concurrent
// access.
package metrics
