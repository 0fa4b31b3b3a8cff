package worker

import (
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"hello-webserver/internal/events"
)

// Group は errgroup を使った代替エグゼキュータ
// 常駐ワーカーもキューも持たず、ジョブごとにゴルーチンを起動する。
// 同時実行数が limit に達している間、Submit はブロックする。
type Group struct {
	g     errgroup.Group
	limit int
	opts  options

	mu     sync.RWMutex
	closed bool

	busy         atomic.Int32
	seq          atomic.Int64
	shutdownOnce sync.Once
}

// NewGroup は同時実行数 limit の Group を作成する
func NewGroup(limit int, opts ...Option) (*Group, error) {
	if limit < 1 {
		return nil, &PoolCreationError{Size: limit}
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	g := &Group{
		limit: limit,
		opts:  o,
	}
	g.g.SetLimit(limit)

	g.opts.log.Info("", "Group executor started (limit: %d)", limit)
	g.opts.bus.Publish(events.NewPoolStartedEvent(limit))

	return g, nil
}

// Submit はジョブを実行する
func (g *Group) Submit(job Job) error {
	if job == nil {
		return ErrNilJob
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	if g.closed {
		return ErrPoolClosed
	}

	g.opts.collector.ObserveSubmit(0)
	// errgroup にはワーカーIDが無いので通し番号で代用する
	id := int(g.seq.Add(1) - 1)
	g.g.Go(func() error {
		g.busy.Add(1)
		g.opts.collector.ObserveStart(0)
		g.opts.log.Debug(componentName(id), "received job; executing")

		start := time.Now()
		panicked := g.opts.run(id, job)
		g.opts.collector.ObserveFinish(time.Since(start), panicked)

		g.busy.Add(-1)
		return nil
	})
	return nil
}

// Shutdown は新規ジョブを拒否し、実行中のジョブの完了を待つ
func (g *Group) Shutdown() {
	g.shutdownOnce.Do(func() {
		g.mu.Lock()
		g.closed = true
		g.mu.Unlock()

		_ = g.g.Wait()

		g.opts.collector.ObserveDrained()
		g.opts.log.Info("", "Group executor stopped")
		g.opts.bus.Publish(events.NewPoolShutdownEvent(g.limit))
	})
}

// Close は io.Closer 向けの Shutdown
func (g *Group) Close() error {
	g.Shutdown()
	return nil
}

// Stats はエグゼキュータの状態を返す
func (g *Group) Stats() Stats {
	g.mu.RLock()
	closed := g.closed
	g.mu.RUnlock()

	return Stats{
		Size:   g.limit,
		Busy:   int(g.busy.Load()),
		Closed: closed,
	}
}
