package event

import (
	"chat-relay/errors"
	"log/slog"
)

type DeliveryFailedHandler struct {
	log     *slog.Logger
	counter *Counter
}

func NewDeliveryFailedHandler(log *slog.Logger, counter *Counter) *DeliveryFailedHandler {
	return &DeliveryFailedHandler{log: log, counter: counter}
}

func (h *DeliveryFailedHandler) Handle(event Event) {
	if event.Type != DeliveryFailedType {
		return
	}
	if _, ok := event.Payload.(DeliveryFailed); !ok {
		h.log.Error(errors.ErrInvalidPayload.Error())
		return
	}
	h.counter.Increment(DeliveryFailedType)
}
