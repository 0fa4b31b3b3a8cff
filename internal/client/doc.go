// Package client provides a load generator for the TCP front end.
//
// The client runs its requests on its own worker.Pool, one job per
// request, and records latency and status lines in metrics.Metrics.
//
// # Basic Usage
//
//	config := client.DefaultConfig()
//	config.Path = "/sleep"
//	config.Requests = 20
//	snap, err := client.New(config, nil).Run(ctx)
//	fmt.Printf("P99: %v, statuses: %v\n", snap.P99Latency, snap.Statuses)
package client
