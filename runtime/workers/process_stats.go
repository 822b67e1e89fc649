package workers

import (
	"chat-relay/domain"
	"chat-relay/domain/event"
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"
)

// ProcessStatsWorker samples the server process (status, CPU, RSS) every
// metric interval and publishes the sample as telemetry.
type ProcessStatsWorker struct {
	log            *slog.Logger
	telemetryChan  chan<- event.Event
	metricInterval time.Duration
	pid            int32
}

func NewProcessStatsWorker(
	log *slog.Logger,
	telemetryChan chan<- event.Event,
	metricInterval time.Duration,
) *ProcessStatsWorker {
	return &ProcessStatsWorker{
		log:            log,
		telemetryChan:  telemetryChan,
		metricInterval: metricInterval,
		pid:            int32(os.Getpid()),
	}
}

func (w *ProcessStatsWorker) Run(ctx context.Context) error {
	p, err := process.NewProcess(w.pid)
	if err != nil {
		return err
	}

	ticker := time.NewTicker(w.metricInterval)
	defer ticker.Stop()

	w.publish(ctx, p)
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping process sampling")
			return nil
		case <-ticker.C:
			w.publish(ctx, p)
		}
	}
}

func (w *ProcessStatsWorker) publish(ctx context.Context, p *process.Process) {
	sample, err := sampleProcess(p)
	if err != nil {
		w.log.Error("Failed to collect self stats", "err", err)
		return
	}
	select {
	case <-ctx.Done():
	case w.telemetryChan <- event.New(event.PIDTrackerType, event.ProcessTracker{Sample: sample}):
	default:
		w.log.Debug("Observability telemetry event lost", "type", event.PIDTrackerType)
	}
}

// sampleProcess retrieves memory, CPU and OS status of the given process.
func sampleProcess(p *process.Process) (domain.ProcessSample, error) {
	memInfo, err := p.MemoryInfo()
	if err != nil {
		return domain.ProcessSample{}, err
	}

	cpuPercent, err := p.CPUPercent()
	if err != nil {
		return domain.ProcessSample{}, err
	}

	status, err := p.Status()
	if err != nil {
		return domain.ProcessSample{}, err
	}

	return domain.ProcessSample{
		PID:       int64(p.Pid),
		Status:    domain.ToPIDStatus(status),
		CPU:       cpuPercent,
		RAM:       memInfo.RSS,
		SampledAt: time.Now().UTC(),
	}, nil
}
