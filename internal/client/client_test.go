package client

import (
	"bufio"
	"context"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"hello-webserver/internal/logger"
	"hello-webserver/internal/server"
	"hello-webserver/internal/worker"
)

func quietLogger() *logger.Logger {
	return logger.New(io.Discard, logger.LevelError)
}

// startServer は静的ファイル付きのサーバーを起動する
func startServer(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	_ = os.WriteFile(filepath.Join(dir, "hello.html"), []byte("hello"), 0644)
	_ = os.WriteFile(filepath.Join(dir, "404.html"), []byte("missing"), 0644)

	pool, err := worker.Build(4, worker.WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	config := server.DefaultConfig()
	config.StaticDir = dir
	config.SleepDelay = 5 * time.Millisecond
	s := server.New(config, pool, server.WithLogger(quietLogger()))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = s.Serve(ctx, ln)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
		pool.Shutdown()
	})

	return ln.Addr().String()
}

func TestDefaultClientConfig(t *testing.T) {
	config := DefaultConfig()
	if config.Path != "/" {
		t.Errorf("expected path /, got %s", config.Path)
	}
	if config.Concurrency != 4 {
		t.Errorf("expected concurrency 4, got %d", config.Concurrency)
	}
}

func TestClientRun(t *testing.T) {
	config := DefaultConfig()
	config.Addr = startServer(t)
	config.Requests = 30
	config.Concurrency = 3
	config.Timeout = 5 * time.Second

	snap, err := New(config, quietLogger()).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if snap.TotalRequests != 30 || snap.SuccessRequests != 30 {
		t.Errorf("expected 30 successful requests, got %+v", snap)
	}
	if snap.Statuses["200 OK"] != 30 {
		t.Errorf("expected 30 x 200 OK, got %v", snap.Statuses)
	}
}

func TestClientRunNotFound(t *testing.T) {
	config := DefaultConfig()
	config.Addr = startServer(t)
	config.Path = "/missing"
	config.Requests = 5

	snap, err := New(config, quietLogger()).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if snap.Statuses["404 Not Found"] != 5 {
		t.Errorf("expected 5 x 404, got %v", snap.Statuses)
	}
}

func TestClientRunConnectionRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	config := DefaultConfig()
	config.Addr = addr
	config.Requests = 3
	config.Timeout = time.Second

	snap, err := New(config, quietLogger()).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if snap.FailedRequests != 3 {
		t.Errorf("expected 3 failures, got %d", snap.FailedRequests)
	}
}

func TestClientRunInvalidConcurrency(t *testing.T) {
	config := DefaultConfig()
	config.Concurrency = 0

	if _, err := New(config, quietLogger()).Run(context.Background()); err == nil {
		t.Error("expected error for zero concurrency")
	}
}

func TestClientRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	config := DefaultConfig()
	config.Addr = "127.0.0.1:1"
	snap, err := New(config, quietLogger()).Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if snap.TotalRequests != 0 {
		t.Errorf("expected no requests after cancel, got %d", snap.TotalRequests)
	}
}

func TestReadResponse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{"ok", "HTTP/1.1 200 OK\r\nContent-Length: 5\r\n\r\nhello", "200 OK", false},
		{"empty body", "HTTP/1.1 500 Internal Server Error\r\nContent-Length: 0\r\n\r\n", "500 Internal Server Error", false},
		{"short body", "HTTP/1.1 200 OK\r\nContent-Length: 9\r\n\r\nhello", "", true},
		{"no length", "HTTP/1.1 200 OK\r\n\r\nhello", "", true},
		{"bad status", "garbage\r\n\r\n", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadResponse(bufio.NewReader(strings.NewReader(tt.raw)))
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
