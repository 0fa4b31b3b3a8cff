package worker

import "sync"

// intake は全ワーカーが共有する上限なしの FIFO キュー
// 送信は決してブロックしない。受信はジョブが届くか、
// クローズ済みかつ空になるまでブロックする。
type intake struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  []Job
	closed bool
}

func newIntake() *intake {
	in := &intake{}
	in.cond = sync.NewCond(&in.mu)
	return in
}

// send はジョブを末尾に追加する
func (in *intake) send(job Job) (queued int, err error) {
	in.mu.Lock()
	defer in.mu.Unlock()

	if in.closed {
		return len(in.queue), ErrPoolClosed
	}
	in.queue = append(in.queue, job)
	in.cond.Signal()
	return len(in.queue), nil
}

// recv は先頭のジョブを取り出す
// クローズ済みかつ空の場合は ok=false を返す
func (in *intake) recv() (job Job, queued int, ok bool) {
	in.mu.Lock()
	defer in.mu.Unlock()

	for len(in.queue) == 0 && !in.closed {
		in.cond.Wait()
	}
	if len(in.queue) == 0 {
		return nil, 0, false
	}

	job = in.queue[0]
	in.queue[0] = nil
	in.queue = in.queue[1:]
	if len(in.queue) == 0 {
		// 先頭を詰めたスライスを使い回さない
		in.queue = nil
	}
	return job, len(in.queue), true
}

// close は以降の送信を拒否し、待機中の全受信者を起こす
// 既に積まれたジョブは引き続き配送される
func (in *intake) close() {
	in.mu.Lock()
	defer in.mu.Unlock()

	if in.closed {
		return
	}
	in.closed = true
	in.cond.Broadcast()
}

func (in *intake) len() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	return len(in.queue)
}

func (in *intake) isClosed() bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.closed
}
