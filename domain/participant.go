// Package domain contains core concepts of the chat system.
// This file defines participant identity and related invariants.
// No runtime, network, or UI logic should be added here.
package domain

import (
	"chat-relay/errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

const MaxUserNameLength = 64

// UserName identifies one connected client. It is unique among the
// currently connected clients only; a second registration replaces the first.
type UserName string

func (u UserName) String() string { return string(u) }

// Validate rejects empty, padded or oversized names.
func (u UserName) Validate() error {
	s := string(u)
	if s == "" {
		return fmt.Errorf("%w: user name is empty", errors.ErrInvalidUserName)
	}
	if strings.TrimSpace(s) != s {
		return fmt.Errorf("%w: user name %q has surrounding whitespace", errors.ErrInvalidUserName, s)
	}
	if utf8.RuneCountInString(s) > MaxUserNameLength {
		return fmt.Errorf("%w: user name longer than %d characters", errors.ErrInvalidUserName, MaxUserNameLength)
	}
	return nil
}
