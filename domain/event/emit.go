package event

import "log/slog"

// Emit publishes evt without blocking. A nil or full telemetry channel drops it,
// telemetry never slows down delivery. It reports whether evt was queued.
func Emit(log *slog.Logger, telemetry chan<- Event, evt Event) bool {
	if telemetry == nil {
		return false
	}
	select {
	case telemetry <- evt:
		return true
	default:
		log.Debug("Observability telemetry event lost", "type", evt.Type)
		return false
	}
}
