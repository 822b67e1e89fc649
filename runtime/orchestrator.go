// Package runtime owns the live state of the relay: who is connected,
// how a message reaches them, and the supervised background workers.
// It holds no business rule about what a valid message is.
package runtime

import (
	"chat-relay/contract"
	"chat-relay/domain/event"
	"chat-relay/moderation"
	"chat-relay/observability"
	"chat-relay/runtime/workers"
	"context"
	"embed"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

//go:embed censored/*
var censoredFolder embed.FS

const capacityWarningThreshold = 0.8

type Orchestrator struct {
	mu             sync.Mutex
	log            *slog.Logger
	supervisor     contract.ISupervisor
	registry       *Registry
	broadcaster    *Broadcaster
	telemetry      chan event.Event
	counter        *event.Counter
	monitoring     *observability.MonitoringManager
	metricInterval time.Duration
	started        bool
}

func NewOrchestrator(log *slog.Logger, supervisor contract.ISupervisor,
	registry *Registry, telemetry chan event.Event,
	counter *event.Counter, monitoring *observability.MonitoringManager,
	metricInterval time.Duration) *Orchestrator {
	return &Orchestrator{
		log:            log,
		supervisor:     supervisor,
		registry:       registry,
		broadcaster:    NewBroadcaster(log, registry, telemetry),
		telemetry:      telemetry,
		counter:        counter,
		monitoring:     monitoring,
		metricInterval: metricInterval,
	}
}

func (o *Orchestrator) Registry() *Registry {
	return o.registry
}

func (o *Orchestrator) Broadcaster() *Broadcaster {
	return o.broadcaster
}

// Telemetry is the sending end shared by every component emitting events.
func (o *Orchestrator) Telemetry() chan<- event.Event {
	return o.telemetry
}

func (o *Orchestrator) Monitoring() *observability.MonitoringManager {
	return o.monitoring
}

// Start registers the background workers and runs them under supervision.
// It blocks until the workers are stopped.
func (o *Orchestrator) Start(ctx context.Context) error {
	o.mu.Lock()
	if o.started {
		o.mu.Unlock()
		return fmt.Errorf("orchestrator already started")
	}
	o.started = true
	o.supervisor.Add(
		workers.NewTelemetryWorker(o.log, o.telemetry, o.handlers()...),
		workers.NewProcessStatsWorker(o.log, o.telemetry, o.metricInterval),
		workers.NewChannelCapacityWorker(o.log, []workers.ChannelGauge{
			workers.GaugeOf("telemetry", o.telemetry),
			o.deliveryGauge(),
		}, o.telemetry, o.metricInterval),
	)
	o.mu.Unlock()

	o.log.Info("Starting orchestrator and all supervised workers")
	o.supervisor.Run(ctx)
	return nil
}

// deliveryGauge sums the fill level of every registered delivery path.
func (o *Orchestrator) deliveryGauge() workers.ChannelGauge {
	type bounded interface {
		Pending() int
		Capacity() int
	}
	sum := func(read func(bounded) int) func() int {
		return func() int {
			total := 0
			for _, entry := range o.registry.Snapshot() {
				if b, ok := entry.Sink.(bounded); ok {
					total += read(b)
				}
			}
			return total
		}
	}
	return workers.ChannelGauge{
		Name: "delivery_paths",
		Len:  sum(func(b bounded) int { return b.Pending() }),
		Cap:  sum(func(b bounded) int { return b.Capacity() }),
	}
}

func (o *Orchestrator) handlers() []event.Handler {
	return []event.Handler{
		event.NewBroadcastHandler(o.log, o.counter, o.metricInterval),
		event.NewDeliveryFailedHandler(o.log, o.counter),
		event.NewSessionHandler(o.log, o.counter),
		event.NewCensoredHandler(o.log, o.counter),
		event.NewWorkerRestartedAfterPanicHandler(o.log, o.counter),
		event.NewProcessTrackerHandler(o.log, o.monitoring),
		event.NewChannelCapacityHandler(o.log, capacityWarningThreshold),
	}
}

// Stop cancels the workers and closes every delivery path,
// so that each streaming session ends.
func (o *Orchestrator) Stop() {
	o.log.Info("Requesting orchestrator shutdown")
	o.supervisor.Stop()
	closed := o.registry.CloseAll()
	o.log.Debug("Delivery paths closed", "count", closed)
}

// PrepareModeration loads the embedded censored words and builds the moderator.
func PrepareModeration(log *slog.Logger, charReplacement rune) (*moderation.Moderator, error) {
	loader := NewCensoredLoader(censoredFolder)
	data, err := loader.LoadAll("censored")
	if err != nil {
		return nil, err
	}

	log.Info(fmt.Sprintf("%d censored files loaded [%s]",
		len(data.Languages), strings.Join(data.Languages, ",")))
	log.Info(fmt.Sprintf("%d unique censored words loaded", len(data.Words)))

	return moderation.NewModerator(data.Words, charReplacement, log)
}
