package workers

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"streamchat/contract"
	"streamchat/errors"
)

const defaultRestartInterval = 200 * time.Millisecond

// Supervisor owns a context and a cancel function.
// Runs each worker in a goroutine, recovers panics, restarts crashed
// workers after a delay and waits for every goroutine on shutdown.
type Supervisor struct {
	mu              sync.Mutex
	cancel          context.CancelFunc // To stop the context
	wg              *sync.WaitGroup    // Wait for the end of goroutines
	log             *slog.Logger
	restartInterval time.Duration
	workers         []contract.Worker
}

func NewSupervisor(log *slog.Logger, restartInterval time.Duration) *Supervisor {
	if restartInterval <= 0 {
		restartInterval = defaultRestartInterval
	}
	return &Supervisor{wg: &sync.WaitGroup{}, log: log, restartInterval: restartInterval}
}

// Run creates a local cancellation trigger tied to the parent ctx.
// If the parent cancels, the children cancel. If Stop is called, only
// the children cancel. Run returns once every worker goroutine ended.
func (s *Supervisor) Run(ctx context.Context) {
	supervisedCtx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()
	// Safety: ensure resources are cleaned up when Run exits
	defer cancel()

	for _, worker := range s.workers {
		s.Start(supervisedCtx, worker)
	}
	s.wg.Wait()
}

func (s *Supervisor) Add(worker ...contract.Worker) contract.ISupervisor {
	s.workers = append(s.workers, worker...)
	return s
}

// Start runs a worker under supervision.
// The worker is executed in a dedicated goroutine. If its Run method panics,
// the supervisor recovers, restarts the worker, and keeps the supervision
// loop alive. A failure in one worker must not stop the supervisor itself.
func (s *Supervisor) Start(ctx context.Context, worker contract.Worker) {
	s.wg.Add(1)
	workerName := contract.GetWorkerName(worker)

	go func() {
		defer s.wg.Done()

		for {
			if ctx.Err() != nil {
				s.log.Info(fmt.Sprintf("Stopping : %s", workerName))
				return
			}

			err := func() (err error) {
				defer func() {
					if r := recover(); r != nil {
						err = errors.ErrWorkerPanic
					}
				}()
				return worker.Run(ctx)
			}()

			if err == nil {
				// Terminated properly, never restart !
				s.log.Info(fmt.Sprintf("Worker finished : %s", workerName))
				return
			}

			if ctx.Err() != nil {
				s.log.Info("Worker stopped (context canceled)", "name", workerName)
				return
			}

			s.log.Warn("Worker crashed, restarting", "name", workerName, "error", err)
			select {
			case <-ctx.Done():
				// Context canceled: priority stop.
				return
			case <-time.After(s.restartInterval):
				// Delay elapsed and context is still active.
			}
		}
	}()
}

// Stop cancels all supervised goroutines. Safe to call more than once,
// from a signal handler included. A Stop before Run is a no-op.
func (s *Supervisor) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}
