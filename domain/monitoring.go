package domain

import "time"

type PIDStatus string

const (
	Running  PIDStatus = "RUNNING"
	Sleeping PIDStatus = "SLEEPING"
	Unknown  PIDStatus = "UNKNOWN"
)

// ToPIDStatus maps the single-letter process states reported by the OS.
func ToPIDStatus(s string) PIDStatus {
	switch s {
	case "R", "running":
		return Running
	case "S", "sleep", "sleeping", "I", "idle":
		return Sleeping
	default:
		return Unknown
	}
}

// ProcessSample is the latest resource usage of the server process.
type ProcessSample struct {
	PID       int64
	Status    PIDStatus
	CPU       float64
	RAM       uint64
	SampledAt time.Time
}

// NodeStatus is the monitoring snapshot of a running node.
type NodeStatus struct {
	NodeID            string
	Process           ProcessSample
	ConnectedUsers    []UserName
	MessagesBroadcast uint64
	DeliveriesOK      uint64
	DeliveriesFailed  uint64
	SessionsOpened    uint64
	SessionsClosed    uint64
	UserReplacements  uint64
	Uptime            time.Duration
}
