package metrics

import (
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// Config はメトリクスの設定
type Config struct {
	MaxLatencySamples int // パーセンタイル計算に保持するサンプル数
}

// DefaultConfig はデフォルト設定を返す
func DefaultConfig() Config {
	return Config{
		MaxLatencySamples: 1000,
	}
}

// Metrics はリクエストのメトリクスを収集する
type Metrics struct {
	totalRequests   atomic.Uint64
	successRequests atomic.Uint64
	failedRequests  atomic.Uint64
	totalLatencyNs  atomic.Uint64

	mu                sync.RWMutex
	startTime         time.Time
	latencies         []time.Duration
	maxLatencySamples int
	statuses          map[string]uint64
}

// New は新しいメトリクスを作成する
func New() *Metrics {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig は設定を指定してメトリクスを作成する
func NewWithConfig(config Config) *Metrics {
	samples := config.MaxLatencySamples
	if samples <= 0 {
		samples = DefaultConfig().MaxLatencySamples
	}
	return &Metrics{
		startTime:         time.Now(),
		latencies:         make([]time.Duration, 0, samples),
		maxLatencySamples: samples,
		statuses:          make(map[string]uint64),
	}
}

// RecordSuccess は成功したリクエストを記録する
// status はレスポンスのステータス行 (例: "200 OK")
func (m *Metrics) RecordSuccess(status string, latency time.Duration) {
	m.totalRequests.Add(1)
	m.successRequests.Add(1)
	m.totalLatencyNs.Add(uint64(latency.Nanoseconds()))

	m.mu.Lock()
	if len(m.latencies) < m.maxLatencySamples {
		m.latencies = append(m.latencies, latency)
	}
	if status != "" {
		m.statuses[status]++
	}
	m.mu.Unlock()
}

// RecordFailure は失敗したリクエストを記録する
func (m *Metrics) RecordFailure(latency time.Duration) {
	m.totalRequests.Add(1)
	m.failedRequests.Add(1)
	m.totalLatencyNs.Add(uint64(latency.Nanoseconds()))
}

// TotalRequests は総リクエスト数を返す
func (m *Metrics) TotalRequests() uint64 {
	return m.totalRequests.Load()
}

// SuccessRequests は成功リクエスト数を返す
func (m *Metrics) SuccessRequests() uint64 {
	return m.successRequests.Load()
}

// FailedRequests は失敗リクエスト数を返す
func (m *Metrics) FailedRequests() uint64 {
	return m.failedRequests.Load()
}

// RPS は開始からの平均RPSを返す
func (m *Metrics) RPS() float64 {
	elapsed := time.Since(m.startTime).Seconds()
	if elapsed == 0 {
		return 0
	}
	return float64(m.totalRequests.Load()) / elapsed
}

// AverageLatency は平均レイテンシを返す
func (m *Metrics) AverageLatency() time.Duration {
	total := m.totalRequests.Load()
	if total == 0 {
		return 0
	}
	return time.Duration(m.totalLatencyNs.Load() / total)
}

// Percentile は成功リクエストのレイテンシのパーセンタイルを返す（サンプルベース）
// p は 0.0〜1.0
func (m *Metrics) Percentile(p float64) time.Duration {
	m.mu.RLock()
	sorted := slices.Clone(m.latencies)
	m.mu.RUnlock()

	if len(sorted) == 0 {
		return 0
	}
	slices.Sort(sorted)

	idx := int(float64(len(sorted)) * p)
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	if idx < 0 {
		idx = 0
	}
	return sorted[idx]
}

// P50Latency は中央値レイテンシを返す
func (m *Metrics) P50Latency() time.Duration {
	return m.Percentile(0.50)
}

// P99Latency はP99レイテンシを返す
func (m *Metrics) P99Latency() time.Duration {
	return m.Percentile(0.99)
}

// ErrorRate はエラー率を返す（0.0〜1.0）
func (m *Metrics) ErrorRate() float64 {
	total := m.totalRequests.Load()
	if total == 0 {
		return 0
	}
	return float64(m.failedRequests.Load()) / float64(total)
}

// StatusCounts はステータス行ごとの件数のコピーを返す
func (m *Metrics) StatusCounts() map[string]uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]uint64, len(m.statuses))
	for k, v := range m.statuses {
		out[k] = v
	}
	return out
}

// Snapshot はメトリクスのスナップショット
type Snapshot struct {
	TotalRequests   uint64
	SuccessRequests uint64
	FailedRequests  uint64
	RPS             float64
	AverageLatency  time.Duration
	P50Latency      time.Duration
	P99Latency      time.Duration
	ErrorRate       float64
	Statuses        map[string]uint64
	Elapsed         time.Duration
}

// Snapshot は現在のメトリクスのスナップショットを返す
func (m *Metrics) Snapshot() Snapshot {
	return Snapshot{
		TotalRequests:   m.TotalRequests(),
		SuccessRequests: m.SuccessRequests(),
		FailedRequests:  m.FailedRequests(),
		RPS:             m.RPS(),
		AverageLatency:  m.AverageLatency(),
		P50Latency:      m.P50Latency(),
		P99Latency:      m.P99Latency(),
		ErrorRate:       m.ErrorRate(),
		Statuses:        m.StatusCounts(),
		Elapsed:         time.Since(m.startTime),
	}
}
