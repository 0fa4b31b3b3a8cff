package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PoolCollector はワーカープールの Prometheus メトリクス
type PoolCollector struct {
	JobsSubmitted prometheus.Counter
	JobsCompleted prometheus.Counter
	JobsPanicked  prometheus.Counter
	WorkersBusy   prometheus.Gauge
	QueueDepth    prometheus.Gauge
	JobDuration   prometheus.Histogram
}

// NewPoolCollector はコレクタを作成し reg に登録する
// reg が nil の場合は登録しない
func NewPoolCollector(reg prometheus.Registerer, namespace string) (*PoolCollector, error) {
	const subsystem = "pool"

	c := &PoolCollector{
		JobsSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "jobs_submitted_total",
			Help:      "Total number of jobs accepted by the pool",
		}),
		JobsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "jobs_completed_total",
			Help:      "Total number of jobs that returned normally",
		}),
		JobsPanicked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "jobs_panicked_total",
			Help:      "Total number of jobs that panicked",
		}),
		WorkersBusy: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "workers_busy",
			Help:      "Number of workers currently running a job",
		}),
		QueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "queue_depth",
			Help:      "Number of jobs waiting in the intake",
		}),
		JobDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "job_duration_seconds",
			Help:      "Histogram of job execution time",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	if reg != nil {
		for _, col := range []prometheus.Collector{
			c.JobsSubmitted,
			c.JobsCompleted,
			c.JobsPanicked,
			c.WorkersBusy,
			c.QueueDepth,
			c.JobDuration,
		} {
			if err := reg.Register(col); err != nil {
				return nil, err
			}
		}
	}

	return c, nil
}

// ObserveSubmit はジョブ投入を記録する
func (c *PoolCollector) ObserveSubmit(queued int) {
	if c == nil {
		return
	}
	c.JobsSubmitted.Inc()
	c.QueueDepth.Set(float64(queued))
}

// ObserveStart はジョブ開始を記録する
func (c *PoolCollector) ObserveStart(queued int) {
	if c == nil {
		return
	}
	c.WorkersBusy.Inc()
	c.QueueDepth.Set(float64(queued))
}

// ObserveFinish はジョブ終了を記録する
func (c *PoolCollector) ObserveFinish(d time.Duration, panicked bool) {
	if c == nil {
		return
	}
	c.WorkersBusy.Dec()
	c.JobDuration.Observe(d.Seconds())
	if panicked {
		c.JobsPanicked.Inc()
	} else {
		c.JobsCompleted.Inc()
	}
}

// ObserveDrained はシャットダウン完了時にゲージをリセットする
func (c *PoolCollector) ObserveDrained() {
	if c == nil {
		return
	}
	c.WorkersBusy.Set(0)
	c.QueueDepth.Set(0)
}
