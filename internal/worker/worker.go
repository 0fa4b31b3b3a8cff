package worker

import (
	"fmt"
	"sync/atomic"
	"time"

	"hello-webserver/internal/events"
)

// State はワーカーの状態
type State int32

const (
	StateWaiting State = iota
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateWaiting:
		return "Waiting"
	case StateRunning:
		return "Running"
	case StateStopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}

// WorkerStatus は観測用のワーカー情報
type WorkerStatus struct {
	ID    int    `json:"id"`
	State string `json:"state"`
}

// Worker は一つのゴルーチンを所有し、共有キューからジョブを取り出して実行する
type Worker struct {
	id    int
	state atomic.Int32
	done  chan struct{}
}

func componentName(id int) string {
	return fmt.Sprintf("worker-%d", id)
}

// newWorker はワーカーを作成し、ゴルーチンを起動する
func newWorker(id int, p *Pool) *Worker {
	w := &Worker{
		id:   id,
		done: make(chan struct{}),
	}
	w.state.Store(int32(StateWaiting))
	go w.loop(p)
	return w
}

// loop はキューがクローズされるまでジョブを実行し続ける
func (w *Worker) loop(p *Pool) {
	defer close(w.done)
	defer w.state.Store(int32(StateStopped))

	name := componentName(w.id)
	for {
		job, queued, ok := p.intake.recv()
		if !ok {
			p.opts.log.Info(name, "disconnected; shutting down")
			p.opts.bus.Publish(events.NewWorkerStoppedEvent(w.id))
			return
		}

		w.state.Store(int32(StateRunning))
		p.busy.Add(1)
		p.opts.collector.ObserveStart(queued)
		p.opts.log.Debug(name, "received job; executing")
		p.opts.bus.Publish(events.NewJobReceivedEvent(w.id))

		start := time.Now()
		panicked := p.opts.run(w.id, job)
		p.opts.collector.ObserveFinish(time.Since(start), panicked)

		p.busy.Add(-1)
		w.state.Store(int32(StateWaiting))
	}
}

// ID はワーカーIDを返す
func (w *Worker) ID() int {
	return w.id
}

// State は現在の状態を返す
func (w *Worker) State() State {
	return State(w.state.Load())
}

// alive はゴルーチンがまだ終了していないかを返す
func (w *Worker) alive() bool {
	select {
	case <-w.done:
		return false
	default:
		return true
	}
}

// join はゴルーチンの終了を待つ
func (w *Worker) join() {
	<-w.done
}
