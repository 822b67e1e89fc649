package services

import (
	"chat-relay/domain"
	"chat-relay/domain/event"
	"chat-relay/errors"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func runSession(session *Session, ctx context.Context, push func(domain.Message) error) chan error {
	done := make(chan error, 1)
	go func() { done <- session.Run(ctx, push) }()
	return done
}

func TestSession_Pushes_In_Order(t *testing.T) {
	req := require.New(t)
	service, _ := newService(nil)
	session, err := service.Connect("bob")
	req.NoError(err)

	received := make(chan domain.Message, 10)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := runSession(session, ctx, func(msg domain.Message) error {
		received <- msg
		return nil
	})

	// When alice sends several messages
	for i := 0; i < 5; i++ {
		_, err := service.SendMessage(context.Background(), domain.PostMessageCommand{UserName: "alice", Content: fmt.Sprint(i)})
		req.NoError(err)
	}

	// Then bob receives them in order
	for i := 0; i < 5; i++ {
		req.Equal(fmt.Sprint(i), (<-received).Content)
	}
	req.Equal(Streaming, session.State())

	cancel()
	req.NoError(<-done)
}

func TestSession_Peer_Gone_Unregisters(t *testing.T) {
	req := require.New(t)
	telemetry := make(chan event.Event, 10)
	service, registry := newService(telemetry)
	session, err := service.Connect("bob")
	req.NoError(err)

	ctx, cancel := context.WithCancel(context.Background())
	done := runSession(session, ctx, func(domain.Message) error { return nil })

	// When the transport reports the peer gone
	cancel()

	// Then the session ends cleanly and bob is no longer registered
	req.NoError(<-done)
	req.Equal(Closed, session.State())
	req.Zero(registry.Len())
}

func TestSession_Push_Failure_Unregisters(t *testing.T) {
	req := require.New(t)
	service, registry := newService(nil)
	session, err := service.Connect("bob")
	req.NoError(err)

	pushErr := fmt.Errorf("broken pipe")
	done := runSession(session, context.Background(), func(domain.Message) error { return pushErr })

	// When a message can't be written to bob's stream
	_, err = service.SendMessage(context.Background(), domain.PostMessageCommand{UserName: "alice", Content: "hi"})
	req.NoError(err)

	// Then the session returns the push error and bob is removed
	req.ErrorIs(<-done, pushErr)
	req.Equal(Closed, session.State())
	req.Zero(registry.Len())

	// And later messages are sent without him
	_, err = service.SendMessage(context.Background(), domain.PostMessageCommand{UserName: "alice", Content: "still there?"})
	req.NoError(err)
}

func TestSession_Handle_Closed_Ends_Session(t *testing.T) {
	req := require.New(t)
	service, registry := newService(nil)
	session, err := service.Connect("bob")
	req.NoError(err)

	done := runSession(session, context.Background(), func(domain.Message) error { return nil })

	// When the server shuts down
	registry.CloseAll()

	// Then the session ends without error
	select {
	case err := <-done:
		req.NoError(err)
	case <-time.After(time.Second):
		req.Fail("session should have ended")
	}
	req.Equal(Closed, session.State())
}

func TestSession_Superseded_Does_Not_Evict_Successor(t *testing.T) {
	req := require.New(t)
	service, registry := newService(nil)
	first, err := service.Connect("alice")
	req.NoError(err)
	_, err = service.Connect("alice")
	req.NoError(err)

	// When the superseded session ends
	ctx, cancel := context.WithCancel(context.Background())
	done := runSession(first, ctx, func(domain.Message) error { return nil })
	cancel()
	req.NoError(<-done)

	// Then the newer alice is still registered
	req.Equal([]domain.UserName{"alice"}, registry.Names())
}

func TestSessionState_String(t *testing.T) {
	req := require.New(t)
	req.Equal("REGISTERING", Registering.String())
	req.Equal("STREAMING", Streaming.String())
	req.Equal("DRAINING", Draining.String())
	req.Equal("CLOSED", Closed.String())
	req.Equal("UNKNOWN", SessionState(42).String())
}

func TestSession_Drained_Handle_Refuses_Late_Broadcast(t *testing.T) {
	req := require.New(t)
	service, registry := newService(nil)
	session, err := service.Connect("bob")
	req.NoError(err)

	// Given a broadcast that captured bob before his session ended
	entries := registry.Snapshot()
	req.Len(entries, 1)

	ctx, cancel := context.WithCancel(context.Background())
	done := runSession(session, ctx, func(domain.Message) error { return nil })
	cancel()
	req.NoError(<-done)

	// When it delivers to the captured handle, which still has a free slot
	err = entries[0].Sink.Consume(context.Background(), domain.NewMessage("alice", "late", time.Now()))

	// Then the delivery is refused instead of counted as delivered
	req.ErrorIs(err, errors.ErrHandleClosed)
}
