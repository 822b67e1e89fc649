package services

import (
	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/domain/event"
	"chat-relay/sink"
	"context"
	"log/slog"
	"sync/atomic"
)

type SessionState int32

const (
	Registering SessionState = iota
	Streaming
	Draining
	Closed
)

func (s SessionState) String() string {
	switch s {
	case Registering:
		return "REGISTERING"
	case Streaming:
		return "STREAMING"
	case Draining:
		return "DRAINING"
	case Closed:
		return "CLOSED"
	default:
		return "UNKNOWN"
	}
}

// Session forwards what reaches one client's delivery path to its outbound stream.
// It is the only reader of its handle.
type Session struct {
	log       *slog.Logger
	userName  domain.UserName
	handle    *sink.GrpcSink
	registry  contract.IRegistry
	telemetry chan<- event.Event
	state     atomic.Int32
}

func newSession(log *slog.Logger, userName domain.UserName, handle *sink.GrpcSink,
	registry contract.IRegistry, telemetry chan<- event.Event) *Session {
	return &Session{
		log:       log.With("user_name", userName, "handle_id", handle.ID),
		userName:  userName,
		handle:    handle,
		registry:  registry,
		telemetry: telemetry,
	}
}

func (s *Session) UserName() domain.UserName {
	return s.userName
}

func (s *Session) State() SessionState {
	return SessionState(s.state.Load())
}

// Run pushes every received message outward, in order, until one of:
//   - the handle is closed (shutdown): returns nil
//   - push fails: the registration is removed and the push error returned
//   - ctx is done (peer gone): the registration is removed, returns nil
func (s *Session) Run(ctx context.Context, push func(domain.Message) error) error {
	s.state.Store(int32(Streaming))
	s.log.Debug("session streaming")

	for {
		select {
		case <-ctx.Done():
			s.drain("peer gone")
			return nil
		case <-s.handle.Done():
			s.drain("delivery path closed")
			return nil
		case msg := <-s.handle.Events():
			if err := push(msg); err != nil {
				s.log.Warn("push to client failed", "message_id", msg.ID, "error", err)
				s.drain("push failed")
				return err
			}
		}
	}
}

// drain closes the handle, then removes this session's registration unless
// a newer connection under the same name already took it over. Closing first
// makes any broadcast still holding the handle fail with ErrHandleClosed.
func (s *Session) drain(reason string) {
	s.state.Store(int32(Draining))
	s.handle.Close()
	removed := s.registry.Remove(s.userName, s.handle)
	s.state.Store(int32(Closed))

	s.log.Info("session closed", "reason", reason, "unregistered", removed)
	event.Emit(s.log, s.telemetry, event.New(event.SessionClosedType, event.SessionClosed{
		UserName: s.userName,
		Reason:   reason,
	}))
}
