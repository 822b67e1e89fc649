package event

import (
	"chat-relay/errors"
	"log/slog"
)

// ChannelCapacityHandler warns when an internal channel gets close to full,
// at which point telemetry starts being dropped.
type ChannelCapacityHandler struct {
	log       *slog.Logger
	threshold float64
}

func NewChannelCapacityHandler(log *slog.Logger, threshold float64) *ChannelCapacityHandler {
	return &ChannelCapacityHandler{log: log, threshold: threshold}
}

func (h ChannelCapacityHandler) Handle(event Event) {
	if event.Type != ChannelCapacityType {
		return
	}
	payload, ok := event.Payload.(ChannelCapacity)
	if !ok {
		h.log.Error(errors.ErrInvalidPayload.Error())
		return
	}
	if payload.Capacity == 0 {
		return
	}
	usage := float64(payload.Length) / float64(payload.Capacity)
	if usage >= h.threshold {
		h.log.Warn("channel almost full",
			"channel", payload.ChannelName,
			"length", payload.Length,
			"capacity", payload.Capacity)
	}
}
