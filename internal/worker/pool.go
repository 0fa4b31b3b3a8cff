package worker

import (
	"sync"
	"sync/atomic"

	"hello-webserver/internal/events"
)

// Pool は固定数のワーカーと共有キューの送信側を所有する
type Pool struct {
	workers []*Worker
	intake  *intake
	opts    options

	busy         atomic.Int32
	shutdownOnce sync.Once
}

// Build は size 個のワーカーを持つプールを作成する
// size が 1 未満の場合は *PoolCreationError を返し、ゴルーチンは起動しない
func Build(size int, opts ...Option) (*Pool, error) {
	if size < 1 {
		return nil, &PoolCreationError{Size: size}
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	p := &Pool{
		workers: make([]*Worker, 0, size),
		intake:  newIntake(),
		opts:    o,
	}
	for id := range size {
		p.workers = append(p.workers, newWorker(id, p))
	}

	p.opts.log.Info("", "WorkerPool started with %d workers", size)
	p.opts.bus.Publish(events.NewPoolStartedEvent(size))

	return p, nil
}

// Submit はジョブをキューに追加する。完了は待たない。
// シャットダウン開始後は ErrPoolClosed を返し、ジョブは実行されない
func (p *Pool) Submit(job Job) error {
	if job == nil {
		return ErrNilJob
	}

	queued, err := p.intake.send(job)
	if err != nil {
		return err
	}
	p.opts.collector.ObserveSubmit(queued)
	return nil
}

// Shutdown はキューをクローズし、全ワーカーを生成順に join する
// 既に積まれたジョブは全て実行される。
// 二回目以降の呼び出しは最初の呼び出しが完了するまで待ってから戻る
func (p *Pool) Shutdown() {
	p.shutdownOnce.Do(func() {
		p.intake.close()

		for _, w := range p.workers {
			p.opts.log.Info("", "Shutting down worker %d", w.id)
			w.join()
			p.opts.bus.Publish(events.NewWorkerJoinedEvent(w.id))
		}

		p.opts.collector.ObserveDrained()
		p.opts.log.Info("", "WorkerPool stopped")
		p.opts.bus.Publish(events.NewPoolShutdownEvent(len(p.workers)))
	})
}

// Close は io.Closer 向けの Shutdown
func (p *Pool) Close() error {
	p.Shutdown()
	return nil
}

// Size はワーカー数を返す
func (p *Pool) Size() int {
	return len(p.workers)
}

// Pending はキューで待機中のジョブ数を返す
func (p *Pool) Pending() int {
	return p.intake.len()
}

// Busy はジョブ実行中のワーカー数を返す
func (p *Pool) Busy() int {
	return int(p.busy.Load())
}

// Alive は終了していないワーカーゴルーチンの数を返す
func (p *Pool) Alive() int {
	n := 0
	for _, w := range p.workers {
		if w.alive() {
			n++
		}
	}
	return n
}

// Closed はシャットダウンが開始されたかを返す
func (p *Pool) Closed() bool {
	return p.intake.isClosed()
}

// Workers は各ワーカーの状態を生成順に返す
func (p *Pool) Workers() []WorkerStatus {
	out := make([]WorkerStatus, 0, len(p.workers))
	for _, w := range p.workers {
		out = append(out, WorkerStatus{ID: w.id, State: w.State().String()})
	}
	return out
}

// Stats はプールの状態を返す
func (p *Pool) Stats() Stats {
	return Stats{
		Size:    p.Size(),
		Pending: p.Pending(),
		Busy:    p.Busy(),
		Closed:  p.Closed(),
	}
}
