package observability

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"
)

const defaultHealthInterval = 5 * time.Second

// HealthWorker samples the daemon's own process (CPU, RAM, OS status)
// on a ticker and folds the result into the manager.
type HealthWorker struct {
	log      *slog.Logger
	manager  *Manager
	interval time.Duration
}

func NewHealthWorker(log *slog.Logger, manager *Manager, interval time.Duration) *HealthWorker {
	if interval <= 0 {
		interval = defaultHealthInterval
	}
	return &HealthWorker{log: log, manager: manager, interval: interval}
}

func (w *HealthWorker) Run(ctx context.Context) error {
	w.log.Info("Starting health worker", "interval", w.interval)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			health, err := selfStats(p)
			if err != nil {
				w.log.Error("Failed to collect self stats", "err", err)
				continue
			}
			w.manager.SetHealth(health)
			w.log.Debug("Health sampled",
				"cpu_percent", health.CPUPercent,
				"rss_bytes", health.RSSBytes,
				"status", health.Status)
		}
	}
}

// selfStats retrieves technical metrics (Memory, CPU, and OS Status) for the given process.
func selfStats(p *process.Process) (Health, error) {
	memInfo, err := p.MemoryInfo()
	if err != nil {
		return Health{}, err
	}

	cpuPercent, err := p.CPUPercent()
	if err != nil {
		return Health{}, err
	}

	status, err := p.Status()
	if err != nil {
		return Health{}, err
	}

	return Health{
		PID:        os.Getpid(),
		Status:     status,
		CPUPercent: cpuPercent,
		RSSBytes:   memInfo.RSS,
	}, nil
}
