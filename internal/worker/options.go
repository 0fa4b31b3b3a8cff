package worker

import (
	"hello-webserver/internal/events"
	"hello-webserver/internal/logger"
	"hello-webserver/internal/metrics"
)

// Job はワーカーが実行するジョブを表す
type Job func()

// PanicHandler はジョブが panic したときに呼ばれる
type PanicHandler func(workerID int, value any)

type options struct {
	log       *logger.Logger
	bus       *events.Bus
	collector *metrics.PoolCollector
	onPanic   PanicHandler
}

func defaultOptions() options {
	return options{
		log: logger.Default,
	}
}

// Option はプールの設定を変更する
type Option func(*options)

// WithLogger はライフサイクルログの出力先を指定する
func WithLogger(l *logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithEvents はライフサイクルイベントの配信先を指定する
func WithEvents(bus *events.Bus) Option {
	return func(o *options) {
		o.bus = bus
	}
}

// WithCollector は Prometheus コレクタを指定する
func WithCollector(c *metrics.PoolCollector) Option {
	return func(o *options) {
		o.collector = c
	}
}

// WithPanicHandler はジョブの panic を受け取るハンドラを指定する
func WithPanicHandler(h PanicHandler) Option {
	return func(o *options) {
		o.onPanic = h
	}
}

// Stats はプールの状態
type Stats struct {
	Size    int  `json:"size"`
	Pending int  `json:"pending"`
	Busy    int  `json:"busy"`
	Closed  bool `json:"closed"`
}

// run はジョブを一つ実行し、panic を回収する
// panic した場合は true を返す
func (o *options) run(workerID int, job Job) (panicked bool) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		panicked = true
		err := &PanicError{WorkerID: workerID, Value: r}
		o.log.Error(componentName(workerID), "%v", err)
		o.bus.Publish(events.NewJobPanickedEvent(workerID, err))
		if o.onPanic != nil {
			o.onPanic(workerID, r)
		}
	}()

	job()
	return false
}
