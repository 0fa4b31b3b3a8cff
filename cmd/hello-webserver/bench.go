package main

import (
	"fmt"
	"io"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"hello-webserver/internal/client"
	"hello-webserver/internal/metrics"
)

func newBenchCmd() *cobra.Command {
	config := client.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "サーバーに負荷をかけて結果を表示",
		Example: `  # / に 1000 リクエスト
  hello-webserver bench -n 1000 --concurrency 16

  # /sleep がワーカーを占有する様子を見る
  hello-webserver bench --path /sleep -n 8 --concurrency 8`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			snap, err := client.New(config, nil).Run(ctx)
			if err != nil {
				return err
			}
			printReport(cmd.OutOrStdout(), snap)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&config.Addr, "addr", config.Addr, "接続先アドレス")
	f.StringVar(&config.Path, "path", config.Path, "リクエストパス")
	f.IntVarP(&config.Requests, "requests", "n", config.Requests, "リクエスト数")
	f.IntVar(&config.Concurrency, "concurrency", config.Concurrency, "同時接続数")
	f.DurationVar(&config.Timeout, "timeout", config.Timeout, "一リクエストあたりのタイムアウト")

	return cmd
}

// printReport は結果を表示する
func printReport(w io.Writer, snap *metrics.Snapshot) {
	fmt.Fprintln(w, "Benchmark Result")
	fmt.Fprintln(w, "================")
	fmt.Fprintf(w, "Requests:    %d (success: %d, failed: %d)\n",
		snap.TotalRequests, snap.SuccessRequests, snap.FailedRequests)
	fmt.Fprintf(w, "Elapsed:     %v\n", snap.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(w, "RPS:         %.2f\n", snap.RPS)
	fmt.Fprintf(w, "Latency:     avg %v, p50 %v, p99 %v\n",
		snap.AverageLatency, snap.P50Latency, snap.P99Latency)
	fmt.Fprintf(w, "Error rate:  %.2f%%\n", snap.ErrorRate*100)

	statuses := make([]string, 0, len(snap.Statuses))
	for s := range snap.Statuses {
		statuses = append(statuses, s)
	}
	slices.Sort(statuses)
	for _, s := range statuses {
		fmt.Fprintf(w, "  %-28s %d\n", s, snap.Statuses[s])
	}
}
