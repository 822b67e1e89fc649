package event

import (
	"chat-relay/errors"
	"log/slog"
)

// SessionHandler tracks connection lifecycle: opened and closed sessions
// and registrations that superseded a previous one under the same name.
type SessionHandler struct {
	log     *slog.Logger
	counter *Counter
}

func NewSessionHandler(log *slog.Logger, counter *Counter) *SessionHandler {
	return &SessionHandler{log: log, counter: counter}
}

func (h *SessionHandler) Handle(event Event) {
	switch event.Type {
	case SessionOpenedType:
		if _, ok := event.Payload.(SessionOpened); !ok {
			h.log.Error(errors.ErrInvalidPayload.Error())
			return
		}
		h.counter.Increment(SessionOpenedType)
	case SessionClosedType:
		payload, ok := event.Payload.(SessionClosed)
		if !ok {
			h.log.Error(errors.ErrInvalidPayload.Error())
			return
		}
		h.counter.Increment(SessionClosedType)
		h.log.Debug("telemetry: session closed", "user_name", payload.UserName, "reason", payload.Reason)
	case UserReplacedType:
		payload, ok := event.Payload.(UserReplaced)
		if !ok {
			h.log.Error(errors.ErrInvalidPayload.Error())
			return
		}
		h.counter.Increment(UserReplacedType)
		h.log.Warn("user name registered twice, previous connection no longer receives messages",
			"user_name", payload.UserName)
	}
}
