package workers

import (
	"chat-relay/domain/event"
	"context"
	"log/slog"
	"time"
)

// ChannelGauge reads the fill level of one internal channel, or of a group of them.
type ChannelGauge struct {
	Name string
	Len  func() int
	Cap  func() int
}

func GaugeOf[T any](name string, ch chan T) ChannelGauge {
	return ChannelGauge{
		Name: name,
		Len:  func() int { return len(ch) },
		Cap:  func() int { return cap(ch) },
	}
}

// ChannelCapacityWorker samples its gauges every interval and publishes them as telemetry.
// A sample that does not fit in the telemetry channel is dropped.
type ChannelCapacityWorker struct {
	log       *slog.Logger
	gauges    []ChannelGauge
	telemetry chan<- event.Event
	interval  time.Duration
}

func NewChannelCapacityWorker(log *slog.Logger, gauges []ChannelGauge,
	telemetry chan<- event.Event, interval time.Duration) *ChannelCapacityWorker {
	return &ChannelCapacityWorker{
		log:       log,
		gauges:    gauges,
		telemetry: telemetry,
		interval:  interval,
	}
}

func (w *ChannelCapacityWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping channel sampling")
			return nil
		case <-ticker.C:
			w.sample()
		}
	}
}

func (w *ChannelCapacityWorker) sample() {
	for _, g := range w.gauges {
		evt := event.New(event.ChannelCapacityType, event.ChannelCapacity{
			ChannelName: g.Name,
			Capacity:    g.Cap(),
			Length:      g.Len(),
		})
		if !event.Emit(w.log, w.telemetry, evt) {
			w.log.Debug("Channel sample dropped", "channel", g.Name)
		}
	}
}
