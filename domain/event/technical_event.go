package event

import (
	"chat-relay/domain"
)

const (
	RestartedAfterPanicType Type = "WORKER_RESTARTED_AFTER_PANIC"
	PIDTrackerType          Type = "PID_TRACKER"
	ChannelCapacityType     Type = "CHANNEL_CAPACITY"
)

type WorkerRestartedAfterPanic struct {
	WorkerName string
}

type ProcessTracker struct {
	Sample domain.ProcessSample
}

// ChannelCapacity is a periodic sample of an internal channel fill level.
type ChannelCapacity struct {
	ChannelName string
	Capacity    int
	Length      int
}
