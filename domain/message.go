// Package domain contains core concepts of the chat system.
// This file defines Message values and related rules.
// Messages are immutable and copied by value on fan-out.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message represents an immutable chat message.
type Message struct {
	ID       uuid.UUID // unique identifier
	UserName UserName
	Content  string
	SentAt   time.Time
}

func NewMessage(userName UserName, content string, at time.Time) Message {
	return Message{
		ID:       uuid.New(),
		UserName: userName,
		Content:  content,
		SentAt:   at,
	}
}

// BroadcastReport is the outcome of one fan-out. It is informative only:
// partial failure is a normal steady-state condition.
type BroadcastReport struct {
	Recipients int
	Delivered  []UserName
	Failed     []UserName
	Duration   time.Duration
}
