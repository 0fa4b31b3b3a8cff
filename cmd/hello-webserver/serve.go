package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"hello-webserver/internal/admin"
	"hello-webserver/internal/config"
	"hello-webserver/internal/events"
	"hello-webserver/internal/logger"
	"hello-webserver/internal/metrics"
	"hello-webserver/internal/server"
	"hello-webserver/internal/worker"
)

// serve 用フラグ（root と serve の両方に登録する）
var (
	serveAddr       string
	serveWorkers    int
	serveStaticDir  string
	serveSleepDelay time.Duration
	serveExecutor   string
	adminEnabled    bool
	adminAddr       string
)

func addServeFlags(f *pflag.FlagSet) {
	f.StringVar(&serveAddr, "addr", "", "待ち受けアドレス (例: 127.0.0.1:7878)")
	f.IntVarP(&serveWorkers, "workers", "w", 0, "ワーカー数")
	f.StringVar(&serveStaticDir, "static-dir", "", "hello.html と 404.html のディレクトリ")
	f.DurationVar(&serveSleepDelay, "sleep-delay", 0, "/sleep の待ち時間 (例: 10s)")
	f.StringVar(&serveExecutor, "executor", "", "実行器 (pool, group)")
	f.BoolVar(&adminEnabled, "admin", false, "管理用 HTTP サーバーを有効化")
	f.StringVar(&adminAddr, "admin-addr", "", "管理用 HTTP サーバーのアドレス")
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "TCP サーバーを起動",
		Example: `  # デフォルト設定で起動
  hello-webserver serve

  # 8 ワーカー、管理サーバー付き
  hello-webserver serve --workers 8 --admin --admin-addr :9090

  # errgroup ベースの実行器を使う
  USE_GROUP_EXECUTOR=1 hello-webserver serve`,
		RunE: runServe,
	}
	addServeFlags(cmd.Flags())
	return cmd
}

// applyServeFlags は明示的に指定されたフラグだけで設定を上書きする
func applyServeFlags(f *pflag.FlagSet, cfg *config.FileConfig) {
	if f.Changed("addr") {
		cfg.Server.Addr = serveAddr
	}
	if f.Changed("workers") {
		cfg.Pool.Size = serveWorkers
	}
	if f.Changed("static-dir") {
		cfg.Server.StaticDir = serveStaticDir
	}
	if f.Changed("sleep-delay") {
		cfg.Server.SleepDelay = serveSleepDelay.String()
	}
	if f.Changed("executor") {
		cfg.Pool.Executor = serveExecutor
	}
	if f.Changed("admin") {
		cfg.Admin.Enabled = adminEnabled
	}
	if f.Changed("admin-addr") {
		cfg.Admin.Addr = adminAddr
	}
}

// executor は server.Executor と admin.StatsSource を兼ねる
type executor interface {
	server.Executor
	admin.StatsSource
}

func newExecutor(cfg *config.FileConfig, opts ...worker.Option) (executor, error) {
	if cfg.Pool.Executor == config.ExecutorGroup {
		g, err := worker.NewGroup(cfg.Pool.Size, opts...)
		if err != nil {
			return nil, err
		}
		return g, nil
	}

	p, err := worker.Build(cfg.Pool.Size, opts...)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyServeFlags(cmd.Flags(), cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("設定検証エラー: %w", err)
	}
	serverConfig, err := cfg.ToServerConfig()
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector, err := metrics.NewPoolCollector(reg, "hello")
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	bus := events.NewBus()
	defer bus.Close()

	exec, err := newExecutor(cfg,
		worker.WithEvents(bus),
		worker.WithCollector(collector),
	)
	if err != nil {
		return fmt.Errorf("実行器の作成に失敗: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "hello-webserver")
	fmt.Fprintln(cmd.OutOrStdout(), "===============")
	fmt.Fprintf(cmd.OutOrStdout(), "Listening: %s\n", serverConfig.Addr)
	fmt.Fprintf(cmd.OutOrStdout(), "Executor: %s (%d)\n", cfg.Pool.Executor, cfg.Pool.Size)
	if cfg.Admin.Enabled {
		fmt.Fprintf(cmd.OutOrStdout(), "Admin: http://%s\n", cfg.Admin.Addr)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Press Ctrl+C to stop")

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(serverConfig, exec)
	err = serve(ctx, cfg, srv, exec, bus, reg)

	// 受け付け済みの接続を全て処理してから戻る
	logger.Info("", "ワーカーを停止中...")
	exec.Shutdown()
	logger.Info("", "Goodbye!")

	return err
}

// serve は TCP サーバーと（有効なら）管理サーバーを ctx が終わるまで動かす
func serve(
	ctx context.Context,
	cfg *config.FileConfig,
	srv *server.Server,
	exec executor,
	bus *events.Bus,
	reg *prometheus.Registry,
) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return srv.ListenAndServe(gctx)
	})

	if cfg.Admin.Enabled {
		adm := admin.NewServer(cfg.Admin.Addr, exec,
			admin.WithExecutorName(cfg.Pool.Executor),
			admin.WithEvents(bus),
			admin.WithGatherer(reg),
			admin.WithConnStats(srv.Stats),
		)
		g.Go(func() error {
			return adm.Start(gctx)
		})
	}

	return g.Wait()
}
