package session

import (
	"context"
	"log/slog"
	"strings"

	"streamchat/domain"
	"streamchat/wire"
)

// OutboundProcessor turns user input lines into appended log events.
type OutboundProcessor struct {
	log    *slog.Logger
	writer *LogWriter
	input  <-chan string
	stop   func()
	self   string
}

func NewOutboundProcessor(log *slog.Logger, writer *LogWriter, input <-chan string, self string, stop func()) *OutboundProcessor {
	return &OutboundProcessor{log: log, writer: writer, input: input, stop: stop, self: self}
}

// Run consumes input until the session stops. Input is trimmed and
// case folded before sending; blank lines are not messages. A closed
// input source ends the whole session.
func (p *OutboundProcessor) Run(ctx context.Context) error {
	p.log.Info("Outbound loop started", "identity", p.self)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-p.input:
			if !ok {
				p.log.Info("Input source closed, stopping session")
				if p.stop != nil {
					p.stop()
				}
				return nil
			}
			p.sendLine(ctx, line)
		}
	}
}

func (p *OutboundProcessor) sendLine(ctx context.Context, line string) {
	text := strings.ToLower(strings.TrimSpace(line))
	if text == "" {
		return
	}
	data, err := wire.Encode(domain.NewMessage(p.self, text))
	if err != nil {
		p.log.Error("Refusing to send malformed message", "error", err)
		return
	}
	if err := p.writer.Append(ctx, data); err != nil {
		// No automatic retry, the user may type it again.
		p.log.Error("Append failed, message not sent", "text", text, "error", err)
	}
}
