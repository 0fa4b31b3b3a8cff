package admin

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/websocket"

	"hello-webserver/internal/events"
	"hello-webserver/internal/logger"
	"hello-webserver/internal/server"
	"hello-webserver/internal/worker"
)

const component = "admin"

// StatsSource は実行器の状態を返す
type StatsSource interface {
	Stats() worker.Stats
}

// WorkerLister はワーカーごとの状態を返す（worker.Pool のみ）
type WorkerLister interface {
	Workers() []worker.WorkerStatus
}

// Option は管理サーバーの設定を変更する
type Option func(*Server)

// WithExecutorName は /api/status に表示する実行器名を指定する
func WithExecutorName(name string) Option {
	return func(s *Server) { s.executorName = name }
}

// WithEvents は /ws に流すイベントバスを指定する
func WithEvents(bus *events.Bus) Option {
	return func(s *Server) { s.bus = bus }
}

// WithGatherer は /metrics で公開するレジストリを指定する
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) { s.gatherer = g }
}

// WithConnStats は TCP サーバーの接続数カウンタを指定する
func WithConnStats(f func() server.Stats) Option {
	return func(s *Server) { s.connStats = f }
}

// WithLogger はログの出力先を指定する
func WithLogger(l *logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// Server は管理用 HTTP サーバー
type Server struct {
	addr         string
	exec         StatsSource
	executorName string
	bus          *events.Bus
	gatherer     prometheus.Gatherer
	connStats    func() server.Stats
	log          *logger.Logger

	mu        sync.RWMutex
	wsClients map[*websocket.Conn]bool

	server *http.Server
}

// NewServer は新しい管理サーバーを作成する
func NewServer(addr string, exec StatsSource, opts ...Option) *Server {
	s := &Server{
		addr:         addr,
		exec:         exec,
		executorName: "pool",
		gatherer:     prometheus.DefaultGatherer,
		log:          logger.Default,
		wsClients:    make(map[*websocket.Conn]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler はルーティング済みのハンドラを返す
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)
	api.HandleFunc("/workers", s.handleWorkers).Methods(http.MethodGet)

	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	r.Handle("/ws", websocket.Handler(s.handleWebSocket))

	return r
}

// Start はサーバーを開始する。ctx がキャンセルされるまで戻らない
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go s.broadcastLoop(ctx)

	s.log.Info(component, "admin server starting on http://%s", s.addr)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	if err := s.server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// StatusResponse はステータスレスポンス
type StatusResponse struct {
	Executor    string        `json:"executor"`
	Size        int           `json:"size"`
	Pending     int           `json:"pending"`
	Busy        int           `json:"busy"`
	Closed      bool          `json:"closed"`
	Connections *server.Stats `json:"connections,omitempty"`
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	stats := s.exec.Stats()
	resp := StatusResponse{
		Executor: s.executorName,
		Size:     stats.Size,
		Pending:  stats.Pending,
		Busy:     stats.Busy,
		Closed:   stats.Closed,
	}
	if s.connStats != nil {
		cs := s.connStats()
		resp.Connections = &cs
	}

	s.writeJSON(w, resp)
}

func (s *Server) handleWorkers(w http.ResponseWriter, _ *http.Request) {
	lister, ok := s.exec.(WorkerLister)
	if !ok {
		http.Error(w, "executor has no persistent workers", http.StatusNotFound)
		return
	}

	s.writeJSON(w, lister.Workers())
}

// WebSocket handling
func (s *Server) handleWebSocket(ws *websocket.Conn) {
	s.mu.Lock()
	s.wsClients[ws] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.wsClients, ws)
		s.mu.Unlock()
		_ = ws.Close()
	}()

	// クライアントが切断するまで保持する
	for {
		var msg string
		if err := websocket.Message.Receive(ws, &msg); err != nil {
			break
		}
	}
}

func (s *Server) clientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.wsClients)
}

func (s *Server) broadcast(data any) {
	s.mu.RLock()
	clients := make([]*websocket.Conn, 0, len(s.wsClients))
	for ws := range s.wsClients {
		clients = append(clients, ws)
	}
	s.mu.RUnlock()

	jsonData, err := json.Marshal(data)
	if err != nil {
		return
	}

	for _, ws := range clients {
		_ = websocket.Message.Send(ws, string(jsonData))
	}
}

// broadcastLoop はバスのイベントを全 WebSocket クライアントに配信する
func (s *Server) broadcastLoop(ctx context.Context) {
	if s.bus == nil {
		return
	}

	ch := s.bus.Subscribe()
	defer s.bus.Unsubscribe(ch)

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			s.broadcast(map[string]any{
				"type":  "event",
				"event": ev,
			})
		}
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error(component, "Failed to encode JSON: %v", err)
	}
}
