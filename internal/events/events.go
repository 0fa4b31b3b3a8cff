// Package events provides an event system for worker pool lifecycle notifications.
package events

import "time"

// EventType represents the type of event
type EventType string

const (
	// EventPoolStarted is emitted once all workers of a pool are running
	EventPoolStarted EventType = "pool_started"
	// EventJobReceived is emitted when a worker dequeues a job
	EventJobReceived EventType = "job_received"
	// EventJobPanicked is emitted when a job panics inside a worker
	EventJobPanicked EventType = "job_panicked"
	// EventWorkerStopped is emitted when a worker observes the closed intake
	EventWorkerStopped EventType = "worker_stopped"
	// EventWorkerJoined is emitted when shutdown has joined a worker
	EventWorkerJoined EventType = "worker_joined"
	// EventPoolShutdown is emitted after every worker has been joined
	EventPoolShutdown EventType = "pool_shutdown"
)

// Event represents a pool lifecycle event
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	WorkerID  int       `json:"worker_id"`
	Data      EventData `json:"data,omitempty"`
}

// EventData contains event-specific data
type EventData struct {
	Workers int    `json:"workers,omitempty"`
	Error   string `json:"error,omitempty"`
}

// NewPoolStartedEvent creates a pool started event
func NewPoolStartedEvent(workers int) Event {
	return Event{
		Type:      EventPoolStarted,
		Timestamp: time.Now(),
		WorkerID:  -1,
		Data: EventData{
			Workers: workers,
		},
	}
}

// NewJobReceivedEvent creates a job received event
func NewJobReceivedEvent(workerID int) Event {
	return Event{
		Type:      EventJobReceived,
		Timestamp: time.Now(),
		WorkerID:  workerID,
	}
}

// NewJobPanickedEvent creates a job panicked event
func NewJobPanickedEvent(workerID int, err error) Event {
	errMsg := ""
	if err != nil {
		errMsg = err.Error()
	}
	return Event{
		Type:      EventJobPanicked,
		Timestamp: time.Now(),
		WorkerID:  workerID,
		Data: EventData{
			Error: errMsg,
		},
	}
}

// NewWorkerStoppedEvent creates a worker stopped event
func NewWorkerStoppedEvent(workerID int) Event {
	return Event{
		Type:      EventWorkerStopped,
		Timestamp: time.Now(),
		WorkerID:  workerID,
	}
}

// NewWorkerJoinedEvent creates a worker joined event
func NewWorkerJoinedEvent(workerID int) Event {
	return Event{
		Type:      EventWorkerJoined,
		Timestamp: time.Now(),
		WorkerID:  workerID,
	}
}

// NewPoolShutdownEvent creates a pool shutdown event
func NewPoolShutdownEvent(workers int) Event {
	return Event{
		Type:      EventPoolShutdown,
		Timestamp: time.Now(),
		WorkerID:  -1,
		Data: EventData{
			Workers: workers,
		},
	}
}
