package runtime

import (
	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/domain/event"
	"chat-relay/errors"
	"chat-relay/mocks"
	"chat-relay/sink"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestBroadcaster_Empty_Registry(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRegistry := mocks.NewMockIRegistry(ctrl)
	telemetry := make(chan event.Event, 10)

	// Given nobody is connected
	mockRegistry.EXPECT().Snapshot().Return(nil).Times(1)
	broadcaster := NewBroadcaster(log, mockRegistry, telemetry)

	// When a message is broadcast
	report := broadcaster.Broadcast(context.Background(), domain.NewMessage("alice", "anyone?", time.Now()))

	// Then nothing is delivered and nothing failed
	req.Zero(report.Recipients)
	req.Empty(report.Delivered)
	req.Empty(report.Failed)

	// And a broadcast summary is still emitted
	evt := <-telemetry
	req.Equal(event.MessageBroadcastType, evt.Type)
}

func TestBroadcaster_Delivers_To_Every_Sink_Including_Author(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRegistry := mocks.NewMockIRegistry(ctrl)
	alice := mocks.NewMockEventSink(ctrl)
	bob := mocks.NewMockEventSink(ctrl)
	msg := domain.NewMessage("alice", "hi", time.Now())

	// Given alice and bob are connected
	mockRegistry.EXPECT().Snapshot().Return([]contract.Entry{
		{UserName: "alice", Sink: alice},
		{UserName: "bob", Sink: bob},
	}).Times(1)
	// Then both receive the exact message
	alice.EXPECT().Consume(gomock.Any(), msg).Return(nil).Times(1)
	bob.EXPECT().Consume(gomock.Any(), msg).Return(nil).Times(1)

	// When alice sends a message
	report := NewBroadcaster(log, mockRegistry, nil).Broadcast(context.Background(), msg)

	req.Equal(2, report.Recipients)
	req.ElementsMatch([]domain.UserName{"alice", "bob"}, report.Delivered)
	req.Empty(report.Failed)
}

func TestBroadcaster_Failed_Recipient_Does_Not_Affect_Others(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRegistry := mocks.NewMockIRegistry(ctrl)
	alice := mocks.NewMockEventSink(ctrl)
	bob := mocks.NewMockEventSink(ctrl)
	telemetry := make(chan event.Event, 10)

	mockRegistry.EXPECT().Snapshot().Return([]contract.Entry{
		{UserName: "alice", Sink: alice},
		{UserName: "bob", Sink: bob},
	}).Times(1)
	// Given alice's delivery path is closed
	alice.EXPECT().Consume(gomock.Any(), gomock.Any()).Return(errors.ErrHandleClosed).Times(1)
	bob.EXPECT().Consume(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	// When a message is broadcast
	report := NewBroadcaster(log, mockRegistry, telemetry).
		Broadcast(context.Background(), domain.NewMessage("bob", "hello", time.Now()))

	// Then bob still receives it
	req.Equal([]domain.UserName{"bob"}, report.Delivered)
	req.Equal([]domain.UserName{"alice"}, report.Failed)

	// And the failure is reported before the summary
	failure := <-telemetry
	req.Equal(event.DeliveryFailedType, failure.Type)
	req.Equal(domain.UserName("alice"), failure.Payload.(event.DeliveryFailed).Recipient)
	summary := <-telemetry
	req.Equal(event.MessageBroadcastType, summary.Type)
	req.Equal(1, summary.Payload.(event.MessageBroadcast).Failed)
}

func TestBroadcaster_Stalled_Recipient_Costs_At_Most_Its_Timeout(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	registry := NewRegistry()
	deliveryTimeout := 50 * time.Millisecond
	stalled := sink.NewGrpcSink("carol", 1, deliveryTimeout)
	healthy := sink.NewGrpcSink("bob", 1, deliveryTimeout)
	registry.Register("carol", stalled)
	registry.Register("bob", healthy)

	// Given carol never reads and her delivery path is already full
	req.NoError(stalled.Consume(context.Background(), domain.NewMessage("bob", "first", time.Now())))

	// When a message is broadcast
	msg := domain.NewMessage("alice", "second", time.Now())
	report := NewBroadcaster(log, registry, nil).Broadcast(context.Background(), msg)

	// Then bob got it right away and carol was dropped after her timeout
	req.Equal([]domain.UserName{"bob"}, report.Delivered)
	req.Equal([]domain.UserName{"carol"}, report.Failed)
	req.Less(report.Duration, time.Second)
	req.Equal(msg, <-healthy.Events())
}

func TestBroadcaster_Keeps_Order_Per_Recipient(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	registry := NewRegistry()
	bob := sink.NewGrpcSink("bob", 16, time.Second)
	registry.Register("bob", bob)
	broadcaster := NewBroadcaster(log, registry, nil)

	// When alice sends several messages one after the other
	contents := []string{"one", "two", "three", "four"}
	for _, c := range contents {
		broadcaster.Broadcast(context.Background(), domain.NewMessage("alice", c, time.Now()))
	}

	// Then bob receives them in order
	for _, c := range contents {
		req.Equal(c, (<-bob.Events()).Content)
	}
}

func TestBroadcaster_Ignores_Caller_Cancellation(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	registry := NewRegistry()
	bob := sink.NewGrpcSink("bob", 1, time.Second)
	registry.Register("bob", bob)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Given the sender already gave up
	// When the message is broadcast
	report := NewBroadcaster(log, registry, nil).Broadcast(ctx, domain.NewMessage("alice", "late", time.Now()))

	// Then it is still delivered
	req.Equal([]domain.UserName{"bob"}, report.Delivered)
}

func TestBroadcaster_Full_Telemetry_Does_Not_Block(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	registry := NewRegistry()
	telemetry := make(chan event.Event)

	done := make(chan struct{})
	go func() {
		NewBroadcaster(log, registry, telemetry).Broadcast(context.Background(), domain.NewMessage("alice", "x", time.Now()))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		req.Fail("broadcast blocked on telemetry")
	}
}

func TestBroadcaster_Closed_Handle_Counts_As_Failed(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	registry := NewRegistry()

	// Given bob's handle was closed while still registered, with room left
	bob := sink.NewGrpcSink("bob", 1, 10*time.Millisecond)
	registry.Register("bob", bob)
	bob.Close()

	// When a message is broadcast
	report := NewBroadcaster(log, registry, nil).Broadcast(context.Background(), domain.NewMessage("alice", "hi", time.Now()))

	// Then bob's delivery is reported as failed
	req.Empty(report.Delivered)
	req.Equal([]domain.UserName{"bob"}, report.Failed)
}
