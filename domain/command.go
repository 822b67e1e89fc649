package domain

import "time"

// PostMessageCommand is the intent of posting one message to every
// connected client.
type PostMessageCommand struct {
	UserName  string `validate:"required,max=64"`
	Content   string
	CreatedAt time.Time
}
