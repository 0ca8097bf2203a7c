package session

import (
	"context"
	stderrors "errors"
	"log/slog"
	"time"

	"streamchat/commands"
	"streamchat/contract"
	"streamchat/domain"
	"streamchat/errors"
	"streamchat/wire"
)

const pollRetryDelay = 500 * time.Millisecond

// InboundProcessor tails the log, drops self-authored messages and
// feeds everything else through command dispatch to the display.
type InboundProcessor struct {
	log      *slog.Logger
	reader   *LogReader
	registry *commands.Registry
	sink     contract.DisplaySink
	self     string
}

func NewInboundProcessor(log *slog.Logger, reader *LogReader, registry *commands.Registry, sink contract.DisplaySink, self string) *InboundProcessor {
	return &InboundProcessor{log: log, reader: reader, registry: registry, sink: sink, self: self}
}

// Run polls until the session context stops, then detaches the reader.
// Per-message failures stay contained in their own poll cycle; only
// cancellation ends the loop.
func (p *InboundProcessor) Run(ctx context.Context) error {
	p.log.Info("Inbound loop started", "identity", p.self)
	for {
		if ctx.Err() != nil {
			p.reader.Detach()
			return ctx.Err()
		}
		if err := p.pollOnce(ctx); err != nil {
			if ctx.Err() != nil {
				continue
			}
			p.log.Error("Poll cycle failed", "error", err)
			select {
			case <-ctx.Done():
			case <-time.After(pollRetryDelay):
			}
		}
	}
}

// pollOnce handles one poll: acknowledge first so a poison batch is
// never redelivered, then decode and dispatch message by message.
func (p *InboundProcessor) pollOnce(ctx context.Context) error {
	batch, err := p.reader.PollNext(ctx)
	if err != nil {
		return err
	}
	if batch == nil {
		return nil
	}

	data := batch.Bytes()
	if err := p.reader.Acknowledge(ctx, batch); err != nil {
		if stderrors.Is(err, errors.ErrInvalidState) {
			p.log.Warn("Acknowledge misuse", "error", err)
		} else {
			// The batch is already extracted; display it regardless.
			// Unacknowledged, it comes back after a reconnect, which
			// at-least-once delivery already allows for.
			p.log.Error("Acknowledge failed, delivering the batch anyway", "error", err)
		}
	}

	messages, err := wire.DecodeAll(data)
	if err != nil {
		p.log.Warn("Dropping malformed batch", "error", err, "bytes", len(data))
		return nil
	}

	for _, msg := range messages {
		if msg.From(p.self) {
			continue
		}
		reply := p.registry.Dispatch(ctx, msg.Text, msg.Sender)
		if err := p.sink.Display(ctx, domain.NewMessage(msg.Sender, reply)); err != nil {
			p.log.Error("Display failed", "sender", msg.Sender, "error", err)
		}
	}
	return nil
}
