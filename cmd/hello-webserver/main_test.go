package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"

	"hello-webserver/internal/config"
	"hello-webserver/internal/metrics"
	"hello-webserver/internal/worker"
)

func TestApplyServeFlags(t *testing.T) {
	f := pflag.NewFlagSet("test", pflag.ContinueOnError)
	addServeFlags(f)
	if err := f.Parse([]string{"--workers", "8", "--executor", "group", "--sleep-delay", "2s", "--admin"}); err != nil {
		t.Fatalf("parse: %v", err)
	}

	cfg := config.Default()
	applyServeFlags(f, cfg)

	if cfg.Pool.Size != 8 {
		t.Errorf("expected pool size 8, got %d", cfg.Pool.Size)
	}
	if cfg.Pool.Executor != config.ExecutorGroup {
		t.Errorf("expected group executor, got %s", cfg.Pool.Executor)
	}
	if cfg.Server.SleepDelay != "2s" {
		t.Errorf("expected sleep delay 2s, got %s", cfg.Server.SleepDelay)
	}
	if !cfg.Admin.Enabled {
		t.Error("expected admin to be enabled")
	}
	// 指定していないフラグは設定を変えない
	if cfg.Server.Addr != config.Default().Server.Addr {
		t.Errorf("addr should keep its default, got %s", cfg.Server.Addr)
	}
}

func TestNewExecutor(t *testing.T) {
	cfg := config.Default()
	cfg.Pool.Size = 2

	exec, err := newExecutor(cfg)
	if err != nil {
		t.Fatalf("newExecutor: %v", err)
	}
	if _, ok := exec.(*worker.Pool); !ok {
		t.Errorf("expected *worker.Pool, got %T", exec)
	}
	exec.Shutdown()

	cfg.Pool.Executor = config.ExecutorGroup
	exec, err = newExecutor(cfg)
	if err != nil {
		t.Fatalf("newExecutor: %v", err)
	}
	if _, ok := exec.(*worker.Group); !ok {
		t.Errorf("expected *worker.Group, got %T", exec)
	}
	exec.Shutdown()
}

func TestVersionCommand(t *testing.T) {
	cmd := newRootCmd()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"version"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(buf.String(), "hello-webserver version "+version) {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestPrintReport(t *testing.T) {
	m := metrics.New()
	m.RecordSuccess("200 OK", 10*time.Millisecond)
	m.RecordSuccess("404 Not Found", 20*time.Millisecond)
	m.RecordFailure(time.Millisecond)
	snap := m.Snapshot()

	buf := &bytes.Buffer{}
	printReport(buf, &snap)
	out := buf.String()

	for _, want := range []string{"Requests:    3 (success: 2, failed: 1)", "200 OK", "404 Not Found"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in report:\n%s", want, out)
		}
	}
}
