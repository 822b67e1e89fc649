package event

import (
	"chat-relay/errors"
	"log/slog"
	"time"
)

// DeliveredType counts successful per-recipient deliveries.
const DeliveredType Type = "DELIVERED"

// BroadcastHandler handles the summary emitted after each fan-out.
// It feeds the broadcast and delivery counters and reports slow fan-outs,
// which usually means one recipient kept its delivery path full.
type BroadcastHandler struct {
	log              *slog.Logger
	counter          *Counter
	latencyThreshold time.Duration
}

func NewBroadcastHandler(log *slog.Logger, counter *Counter, latencyThreshold time.Duration) *BroadcastHandler {
	return &BroadcastHandler{log: log, counter: counter, latencyThreshold: latencyThreshold}
}

func (h *BroadcastHandler) Handle(event Event) {
	if event.Type != MessageBroadcastType {
		return
	}
	payload, ok := event.Payload.(MessageBroadcast)
	if !ok {
		h.log.Error(errors.ErrInvalidPayload.Error())
		return
	}
	h.counter.Increment(MessageBroadcastType)
	h.counter.Add(DeliveredType, uint64(payload.Delivered))

	h.log.Debug("telemetry: broadcast",
		"message_id", payload.MessageID,
		"author", payload.Author,
		"recipients", payload.Recipients,
		"failed", payload.Failed,
		"duration_ms", payload.Duration.Milliseconds())

	if h.latencyThreshold > 0 && payload.Duration > h.latencyThreshold {
		h.log.Warn("slow broadcast detected", "duration", payload.Duration, "recipients", payload.Recipients)
	}
}
