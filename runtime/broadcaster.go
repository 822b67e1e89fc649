package runtime

import (
	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/domain/event"
	"context"
	"log/slog"
	"sync"
	"time"
)

// Broadcaster delivers one message to every registered sink.
//
// It provides best-effort fan-out: a recipient whose delivery path is
// closed or stays full past its delivery timeout loses that message, nothing
// more. There is no retry and no error is ever returned to the sender.
type Broadcaster struct {
	log       *slog.Logger
	registry  contract.IRegistry
	telemetry chan<- event.Event
}

func NewBroadcaster(log *slog.Logger, registry contract.IRegistry, telemetry chan<- event.Event) *Broadcaster {
	return &Broadcaster{log: log, registry: registry, telemetry: telemetry}
}

// Broadcast pushes msg to a snapshot of the registry, one goroutine per
// recipient, and waits for every attempt. Sequential calls therefore keep
// their order for each recipient.
// Delivery is detached from the caller cancellation: a sender giving up on
// its acknowledgement does not take the message away from the others.
func (b *Broadcaster) Broadcast(ctx context.Context, msg domain.Message) domain.BroadcastReport {
	start := time.Now()
	entries := b.registry.Snapshot()
	deliveryCtx := context.WithoutCancel(ctx)

	var (
		mu        sync.Mutex
		wg        sync.WaitGroup
		delivered = make([]domain.UserName, 0, len(entries))
		failed    []domain.UserName
	)

	for _, entry := range entries {
		wg.Add(1)
		go func(entry contract.Entry) {
			defer wg.Done()
			err := entry.Sink.Consume(deliveryCtx, msg)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed = append(failed, entry.UserName)
				b.log.Warn("delivery failed",
					"recipient", entry.UserName,
					"message_id", msg.ID,
					"error", err)
				event.Emit(b.log, b.telemetry, event.New(event.DeliveryFailedType, event.DeliveryFailed{
					MessageID: msg.ID,
					Recipient: entry.UserName,
					Reason:    err.Error(),
				}))
				return
			}
			delivered = append(delivered, entry.UserName)
		}(entry)
	}
	wg.Wait()

	report := domain.BroadcastReport{
		Recipients: len(entries),
		Delivered:  delivered,
		Failed:     failed,
		Duration:   time.Since(start),
	}
	event.Emit(b.log, b.telemetry, event.New(event.MessageBroadcastType, event.MessageBroadcast{
		MessageID:  msg.ID,
		Author:     msg.UserName,
		Recipients: report.Recipients,
		Delivered:  len(report.Delivered),
		Failed:     len(report.Failed),
		Duration:   report.Duration,
	}))
	b.log.Debug("message broadcast",
		"message_id", msg.ID,
		"author", msg.UserName,
		"recipients", report.Recipients,
		"failed", len(report.Failed))
	return report
}
