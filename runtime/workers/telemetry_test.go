package workers

import (
	"chat-relay/domain/event"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	events chan event.Event
}

func (h recordingHandler) Handle(evt event.Event) {
	h.events <- evt
}

func TestTelemetryWorker_Dispatches_To_Every_Handler(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	telemetry := make(chan event.Event, 10)
	first := recordingHandler{events: make(chan event.Event, 10)}
	second := recordingHandler{events: make(chan event.Event, 10)}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = NewTelemetryWorker(log, telemetry, first, second).Run(ctx) }()

	// When an event is published
	telemetry <- event.New(event.SessionOpenedType, event.SessionOpened{UserName: "alice"})

	// Then both handlers receive it
	for _, h := range []recordingHandler{first, second} {
		select {
		case evt := <-h.events:
			req.Equal(event.SessionOpenedType, evt.Type)
		case <-time.After(time.Second):
			req.Fail("event not dispatched")
		}
	}
}

func TestTelemetryWorker_Stops_On_Cancel(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error)
	go func() { done <- NewTelemetryWorker(log, make(chan event.Event)).Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		req.NoError(err)
	case <-time.After(time.Second):
		req.Fail("worker did not stop")
	}
}

func TestChannelCapacityWorker_Reports_Fill_Level(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	telemetry := make(chan event.Event, 10)
	watched := make(chan int, 4)
	watched <- 1
	watched <- 2

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	worker := NewChannelCapacityWorker(log, []ChannelGauge{
		GaugeOf("watched", watched),
	}, telemetry, 10*time.Millisecond)
	go func() { _ = worker.Run(ctx) }()

	select {
	case evt := <-telemetry:
		req.Equal(event.ChannelCapacityType, evt.Type)
		req.Equal(event.ChannelCapacity{ChannelName: "watched", Capacity: 4, Length: 2}, evt.Payload)
	case <-time.After(time.Second):
		req.Fail("no capacity sample")
	}
}

func TestProcessStatsWorker_Publishes_Sample(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	telemetry := make(chan event.Event, 10)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = NewProcessStatsWorker(log, telemetry, time.Hour).Run(ctx) }()

	// Then a first sample is published right away
	select {
	case evt := <-telemetry:
		req.Equal(event.PIDTrackerType, evt.Type)
		sample := evt.Payload.(event.ProcessTracker).Sample
		req.Positive(sample.PID)
		req.Positive(sample.RAM)
	case <-time.After(2 * time.Second):
		req.Fail("no process sample")
	}
}
