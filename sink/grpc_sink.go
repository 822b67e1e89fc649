package sink

import (
	"chat-relay/domain"
	"chat-relay/errors"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// GrpcSink is the delivery path of one connected client.
// Any number of broadcasts push into it through Consume, the owning
// session is the only reader of Events.
type GrpcSink struct {
	ID              uuid.UUID
	UserName        domain.UserName
	events          chan domain.Message
	done            chan struct{}
	closeOnce       sync.Once
	deliveryTimeout time.Duration
}

func NewGrpcSink(userName domain.UserName, bufferSize int, deliveryTimeout time.Duration) *GrpcSink {
	if bufferSize < 1 {
		bufferSize = 1
	}
	return &GrpcSink{
		ID:              uuid.New(),
		UserName:        userName,
		events:          make(chan domain.Message, bufferSize),
		done:            make(chan struct{}),
		deliveryTimeout: deliveryTimeout,
	}
}

// Consume is called by the broadcaster.
// The message is queued right away when there is room. A full queue is given
// deliveryTimeout to drain before the delivery counts as failed, so a stalled
// client only ever costs its own messages.
func (s *GrpcSink) Consume(ctx context.Context, msg domain.Message) error {
	select {
	case <-s.done:
		return errors.ErrHandleClosed
	default:
	}

	select {
	case s.events <- msg:
		return s.accepted()
	default:
	}

	timer := time.NewTimer(s.deliveryTimeout)
	defer timer.Stop()

	select {
	case s.events <- msg:
		return s.accepted()
	case <-s.done:
		return errors.ErrHandleClosed
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return fmt.Errorf("%w: %d messages pending for %s", errors.ErrDeliveryTimeout, len(s.events), s.UserName)
	}
}

// accepted reports a message queued while the sink was being closed as
// undelivered, since its session no longer reads.
func (s *GrpcSink) accepted() error {
	select {
	case <-s.done:
		return errors.ErrHandleClosed
	default:
		return nil
	}
}

// Events is the receiving end, reserved to the owning session.
func (s *GrpcSink) Events() <-chan domain.Message {
	return s.events
}

// Done is closed once the sink no longer accepts messages.
func (s *GrpcSink) Done() <-chan struct{} {
	return s.done
}

// Close is safe to call several times and from several goroutines.
func (s *GrpcSink) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
}

func (s *GrpcSink) Pending() int {
	return len(s.events)
}

func (s *GrpcSink) Capacity() int {
	return cap(s.events)
}
