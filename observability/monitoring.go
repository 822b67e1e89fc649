// Package observability assembles the monitoring snapshot of a node
// from the telemetry counters and the latest process sample.
package observability

import (
	"chat-relay/domain"
	"chat-relay/domain/event"
	"log/slog"
	"sync"
	"time"
)

type MonitoringManager struct {
	log       *slog.Logger
	mu        sync.RWMutex
	nodeID    string
	startedAt time.Time
	counter   *event.Counter
	latest    domain.ProcessSample
}

func NewMonitoringManager(log *slog.Logger, nodeID string, counter *event.Counter) *MonitoringManager {
	return &MonitoringManager{
		log:       log,
		nodeID:    nodeID,
		startedAt: time.Now(),
		counter:   counter,
		latest:    domain.ProcessSample{Status: domain.Unknown},
	}
}

// RecordSample replaces the latest process sample.
func (mm *MonitoringManager) RecordSample(sample domain.ProcessSample) {
	mm.mu.Lock()
	defer mm.mu.Unlock()
	mm.latest = sample
}

func (mm *MonitoringManager) LatestSample() domain.ProcessSample {
	mm.mu.RLock()
	defer mm.mu.RUnlock()
	return mm.latest
}

// Snapshot combines the counters, the latest sample and the given connected users.
func (mm *MonitoringManager) Snapshot(users []domain.UserName) domain.NodeStatus {
	status := domain.NodeStatus{
		NodeID:            mm.nodeID,
		Process:           mm.LatestSample(),
		ConnectedUsers:    users,
		MessagesBroadcast: mm.counter.Get(event.MessageBroadcastType),
		DeliveriesOK:      mm.counter.Get(event.DeliveredType),
		DeliveriesFailed:  mm.counter.Get(event.DeliveryFailedType),
		SessionsOpened:    mm.counter.Get(event.SessionOpenedType),
		SessionsClosed:    mm.counter.Get(event.SessionClosedType),
		UserReplacements:  mm.counter.Get(event.UserReplacedType),
		Uptime:            time.Since(mm.startedAt).Round(time.Second),
	}
	mm.log.Debug("monitoring snapshot",
		"connected", len(users),
		"broadcast", status.MessagesBroadcast,
		"failed", status.DeliveriesFailed)
	return status
}
