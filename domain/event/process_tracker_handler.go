package event

import (
	"chat-relay/domain"
	"chat-relay/errors"
	"fmt"
	"log/slog"
)

// SampleRecorder keeps the latest process sample for the monitoring surface.
type SampleRecorder interface {
	RecordSample(sample domain.ProcessSample)
}

type ProcessTrackerHandler struct {
	log      *slog.Logger
	recorder SampleRecorder
}

func NewProcessTrackerHandler(log *slog.Logger, recorder SampleRecorder) *ProcessTrackerHandler {
	return &ProcessTrackerHandler{log: log, recorder: recorder}
}

func (h ProcessTrackerHandler) Handle(event Event) {
	switch event.Type {
	case PIDTrackerType:
		payload, ok := event.Payload.(ProcessTracker)
		if !ok {
			h.log.Error(errors.ErrInvalidPayload.Error())
			return
		}
		h.recorder.RecordSample(payload.Sample)
		h.log.Debug(fmt.Sprintf("[SERVER] PID %d | STATUS %s | CPU %.2f%% | RSS %d bytes",
			payload.Sample.PID, payload.Sample.Status, payload.Sample.CPU, payload.Sample.RAM))
	}
}
