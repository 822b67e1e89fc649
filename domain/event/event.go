// Package event defines the telemetry events emitted by the runtime.
// Events describe what already happened; they never drive delivery.
package event

import (
	"chat-relay/domain"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	MessageBroadcastType Type = "MESSAGE_BROADCAST"
	DeliveryFailedType   Type = "DELIVERY_FAILED"
	SessionOpenedType    Type = "SESSION_OPENED"
	SessionClosedType    Type = "SESSION_CLOSED"
	UserReplacedType     Type = "USER_REPLACED"
	CensorshipHitType    Type = "CENSORSHIP_HIT"
)

type Event struct {
	Type      Type
	CreatedAt time.Time
	Payload   any
}

func New(t Type, payload any) Event {
	return Event{Type: t, CreatedAt: time.Now().UTC(), Payload: payload}
}

// MessageBroadcast summarizes one fan-out.
type MessageBroadcast struct {
	MessageID  uuid.UUID
	Author     domain.UserName
	Recipients int
	Delivered  int
	Failed     int
	Duration   time.Duration
}

// DeliveryFailed is emitted once per recipient whose delivery path refused a message.
type DeliveryFailed struct {
	MessageID uuid.UUID
	Recipient domain.UserName
	Reason    string
}

type SessionOpened struct {
	UserName domain.UserName
}

type SessionClosed struct {
	UserName domain.UserName
	Reason   string
}

// UserReplaced is emitted when a registration supersedes an existing one.
type UserReplaced struct {
	UserName domain.UserName
}

type Censored struct {
	Author   domain.UserName
	Words    []string
	Language string
}
