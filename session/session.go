// Package session composes one participant's read and write loops into
// a single conversational unit over a shared stream.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"streamchat/commands"
	"streamchat/contract"
	"streamchat/runtime/workers"
	"streamchat/streamlog"
)

// Config carries the participant-facing knobs of a chat session.
type Config struct {
	// Identity tags outgoing messages and suppresses their echo.
	// Chosen once, immutable for the session lifetime.
	Identity string
	// RestartInterval is the supervision backoff after a loop panic.
	RestartInterval time.Duration
}

// ChatSession owns one inbound and one outbound processor and runs
// them as supervised workers under a shared cancellation context.
// The log itself is the only coordination medium between the loops.
type ChatSession struct {
	log      *slog.Logger
	identity string
	sup      *workers.Supervisor
	inbound  *InboundProcessor
	outbound *OutboundProcessor
	reader   *LogReader
	writer   *LogWriter

	stopOnce sync.Once
	stopped  chan struct{}
}

// New wires a session from its collaborators. The reader and writer
// are owned exclusively by their processors from here on.
func New(
	log *slog.Logger,
	cfg Config,
	reader streamlog.Reader,
	writer streamlog.Writer,
	registry *commands.Registry,
	sink contract.DisplaySink,
	input <-chan string,
) *ChatSession {
	s := &ChatSession{
		log:      log,
		identity: cfg.Identity,
		sup:      workers.NewSupervisor(log, cfg.RestartInterval),
		stopped:  make(chan struct{}),
	}
	readerAdapter := NewLogReader(reader, log)
	writerAdapter := NewLogWriter(writer, log)
	s.inbound = NewInboundProcessor(log, readerAdapter, registry, sink, cfg.Identity)
	s.outbound = NewOutboundProcessor(log, writerAdapter, input, cfg.Identity, s.Stop)
	s.reader = readerAdapter
	s.writer = writerAdapter
	return s
}

// Run starts both loops and blocks until they have exited, so shutdown
// is observable. The loops end when ctx is canceled or Stop is called,
// whichever comes first.
func (s *ChatSession) Run(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		select {
		case <-s.stopped:
			cancel()
		case <-runCtx.Done():
		}
	}()

	s.sup.Add(s.inbound, s.outbound)
	s.sup.Run(runCtx)

	// The inbound loop detaches on its way out, but an early Stop can
	// cancel runCtx before that loop ever starts. Detach here as well;
	// the adapter detaches at most once.
	s.reader.Detach()
	s.writer.Close()
	s.log.Info("Chat session closed", "identity", s.identity)
	return nil
}

// Stop asks both loops to exit at their next iteration boundary. It
// never blocks, may be called any number of times and is safe from a
// signal handler.
func (s *ChatSession) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopped)
	})
}
