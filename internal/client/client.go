package client

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"

	"hello-webserver/internal/logger"
	"hello-webserver/internal/metrics"
	"hello-webserver/internal/worker"
)

const component = "client"

// Config はClientの設定
type Config struct {
	Addr        string        // 接続先
	Path        string        // リクエストパス
	Requests    int           // 送信するリクエスト数
	Concurrency int           // 同時接続数（プールのワーカー数）
	Timeout     time.Duration // 一リクエストあたりのタイムアウト
}

// DefaultConfig はデフォルト設定を返す
func DefaultConfig() Config {
	return Config{
		Addr:        "127.0.0.1:7878",
		Path:        "/",
		Requests:    100,
		Concurrency: 4,
		Timeout:     30 * time.Second,
	}
}

// Client は負荷生成器
type Client struct {
	config  Config
	metrics *metrics.Metrics
	log     *logger.Logger
}

// New は新しいClientを作成する
func New(config Config, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Default
	}
	return &Client{
		config:  config,
		metrics: metrics.New(),
		log:     log,
	}
}

// Run は Requests 件のリクエストを Concurrency 並列で送信し、結果を返す
// ctx がキャンセルされると未送信のリクエストは捨てられる
func (c *Client) Run(ctx context.Context) (*metrics.Snapshot, error) {
	if c.config.Requests < 0 {
		return nil, fmt.Errorf("requests must be non-negative: %d", c.config.Requests)
	}

	pool, err := worker.Build(c.config.Concurrency, worker.WithLogger(c.log))
	if err != nil {
		return nil, fmt.Errorf("client pool: %w", err)
	}

	c.log.Info(component, "sending %d requests to %s%s (concurrency: %d)",
		c.config.Requests, c.config.Addr, c.config.Path, c.config.Concurrency)

	for range c.config.Requests {
		if ctx.Err() != nil {
			break
		}
		if err := pool.Submit(c.createJob(ctx)); err != nil {
			break
		}
	}
	pool.Shutdown()

	snapshot := c.metrics.Snapshot()
	return &snapshot, nil
}

// Metrics はメトリクスを返す
func (c *Client) Metrics() *metrics.Metrics {
	return c.metrics
}

// createJob はリクエストジョブを作成する
func (c *Client) createJob(ctx context.Context) worker.Job {
	return func() {
		if ctx.Err() != nil {
			return
		}

		start := time.Now()
		status, err := c.do(ctx)
		latency := time.Since(start)
		if err != nil {
			c.log.Debug(component, "request failed: %v", err)
			c.metrics.RecordFailure(latency)
			return
		}
		c.metrics.RecordSuccess(status, latency)
	}
}

// do は一回のリクエストを送信し、ステータス（例: "200 OK"）を返す
func (c *Client) do(ctx context.Context) (string, error) {
	d := net.Dialer{Timeout: c.config.Timeout}
	conn, err := d.DialContext(ctx, "tcp", c.config.Addr)
	if err != nil {
		return "", err
	}
	defer conn.Close()

	if c.config.Timeout > 0 {
		_ = conn.SetDeadline(time.Now().Add(c.config.Timeout))
	}

	if _, err := fmt.Fprintf(conn, "GET %s HTTP/1.1\r\nHost: %s\r\n\r\n", c.config.Path, c.config.Addr); err != nil {
		return "", err
	}

	return ReadResponse(bufio.NewReader(conn))
}

// ReadResponse はレスポンスを読み、Content-Length と本文長を照合する
func ReadResponse(r *bufio.Reader) (string, error) {
	statusLine, err := r.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read status line: %w", err)
	}
	proto, status, ok := strings.Cut(strings.TrimRight(statusLine, "\r\n"), " ")
	if !ok || !strings.HasPrefix(proto, "HTTP/") {
		return "", fmt.Errorf("malformed status line: %q", statusLine)
	}

	length := -1
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("read header: %w", err)
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		name, value, ok := strings.Cut(line, ":")
		if ok && strings.EqualFold(strings.TrimSpace(name), "Content-Length") {
			length, err = strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				return "", fmt.Errorf("bad Content-Length: %w", err)
			}
		}
	}
	if length < 0 {
		return "", fmt.Errorf("missing Content-Length")
	}

	n, err := io.Copy(io.Discard, r)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	if int(n) != length {
		return "", fmt.Errorf("body length %d does not match Content-Length %d", n, length)
	}

	return status, nil
}
