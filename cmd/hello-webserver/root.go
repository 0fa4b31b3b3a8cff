package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"hello-webserver/internal/config"
	"hello-webserver/internal/logger"
)

// envGroupExecutor が設定されていれば errgroup ベースの実行器を使う
const envGroupExecutor = "USE_GROUP_EXECUTOR"

var (
	configFile string
	logLevel   string
	logFormat  string
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "hello-webserver",
		Short: "A tiny TCP web server backed by a fixed-size worker pool",
		Long: `hello-webserver serves two routes ("/" and "/sleep") over raw TCP.
Every accepted connection is handed to a fixed-size worker pool as one job.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return setupLogger(cmd)
		},
		// サブコマンド無しは serve と同じ
		RunE: runServe,
	}

	root.PersistentFlags().StringVarP(&configFile, "config", "c", "", "設定ファイルパス (YAML/JSON)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "ログレベル (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&logFormat, "log-format", "", "ログ形式 (text, json)")

	addServeFlags(root.Flags())
	root.AddCommand(newServeCmd(), newBenchCmd(), newVersionCmd())
	return root
}

// loadConfig は設定ファイルとフラグから設定を組み立てる
func loadConfig() (*config.FileConfig, error) {
	cfg := config.Default()
	if configFile != "" {
		var err error
		cfg, err = config.LoadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("設定ファイル読み込みエラー: %w", err)
		}
	}

	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}
	if _, ok := os.LookupEnv(envGroupExecutor); ok {
		cfg.Pool.Executor = config.ExecutorGroup
	}
	return cfg, nil
}

func setupLogger(_ *cobra.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	logger.Default.SetLevel(level)
	return logger.Default.SetFormat(cfg.Log.Format)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "バージョンを表示",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "hello-webserver version %s\n", version)
		},
	}
}
