package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"hello-webserver/internal/logger"
	"hello-webserver/internal/worker"
)

const (
	component = "server"

	// ヘッダ読み捨ての上限行数
	maxHeaderLines = 100
)

// Config はサーバーの設定
type Config struct {
	Addr        string
	StaticDir   string
	SleepDelay  time.Duration
	ReadTimeout time.Duration // 0 でタイムアウトなし
}

// DefaultConfig はデフォルト設定を返す
func DefaultConfig() Config {
	return Config{
		Addr:        "127.0.0.1:7878",
		StaticDir:   "static",
		SleepDelay:  10 * time.Second,
		ReadTimeout: 30 * time.Second,
	}
}

// Executor は接続ごとのジョブを受け取る実行器
// worker.Pool と worker.Group が満たす
type Executor interface {
	Submit(job worker.Job) error
	Shutdown()
}

// Option はサーバーの設定を変更する
type Option func(*Server)

// WithLogger はログの出力先を指定する
func WithLogger(l *logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// Server は TCP 接続を受け付け、一接続を一ジョブとして実行器に渡す
type Server struct {
	config Config
	exec   Executor
	log    *logger.Logger

	accepted atomic.Uint64
	rejected atomic.Uint64
	handled  atomic.Uint64
}

// New は新しいサーバーを作成する
func New(config Config, exec Executor, opts ...Option) *Server {
	s := &Server{
		config: config,
		exec:   exec,
		log:    logger.Default,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListenAndServe は Config.Addr で待ち受けを開始する
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.config.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve は ln から接続を受け付け続ける
// ctx がキャンセルされるとリスナーを閉じて nil を返す。
// 受け付け済みの接続の完了は待たない（実行器の Shutdown で待つ）
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			_ = ln.Close()
		case <-stop:
		}
	}()
	defer ln.Close()

	s.log.Info(component, "listening on %s", ln.Addr())

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				s.log.Info(component, "listener closed")
				return nil
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				s.log.Warn(component, "accept: %v", err)
				time.Sleep(10 * time.Millisecond)
				continue
			}
			return fmt.Errorf("accept: %w", err)
		}

		s.accepted.Add(1)
		id := uuid.NewString()
		if err := s.exec.Submit(func() { s.handle(conn, id) }); err != nil {
			s.rejected.Add(1)
			s.log.Warn(component, "conn %s from %s rejected: %v", id, conn.RemoteAddr(), err)
			_ = conn.Close()
		}
	}
}

// handle は一つの接続を処理する。ワーカー上で実行される
func (s *Server) handle(conn net.Conn, id string) {
	defer conn.Close()
	defer s.handled.Add(1)

	if s.config.ReadTimeout > 0 {
		_ = conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))
	}

	line, err := readRequest(bufio.NewReader(conn))
	if err != nil {
		s.log.Warn(component, "conn %s: read request: %v", id, err)
		return
	}

	route := Lookup(line)
	if route.Sleep && s.config.SleepDelay > 0 {
		time.Sleep(s.config.SleepDelay)
	}

	status := route.Status
	body, err := os.ReadFile(filepath.Join(s.config.StaticDir, route.File))
	if err != nil {
		s.log.Error(component, "conn %s: read %s: %v", id, route.File, err)
		status = StatusInternalServerError
		body = nil
	}

	if _, err := conn.Write(FormatResponse(status, body)); err != nil {
		s.log.Warn(component, "conn %s: write response: %v", id, err)
		return
	}
	s.log.Debug(component, "conn %s: %q -> %s", id, line, status)
}

// readRequest はリクエスト行を返し、続くヘッダを空行まで読み捨てる
func readRequest(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	requestLine := strings.TrimRight(line, "\r\n")

	for range maxHeaderLines {
		h, err := r.ReadString('\n')
		if err != nil || strings.TrimRight(h, "\r\n") == "" {
			break
		}
	}
	return requestLine, nil
}

// Stats はサーバーの接続数カウンタ
type Stats struct {
	Accepted uint64 `json:"accepted"`
	Rejected uint64 `json:"rejected"`
	Handled  uint64 `json:"handled"`
}

// Stats は現在のカウンタを返す
func (s *Server) Stats() Stats {
	return Stats{
		Accepted: s.accepted.Load(),
		Rejected: s.rejected.Load(),
		Handled:  s.handled.Load(),
	}
}
