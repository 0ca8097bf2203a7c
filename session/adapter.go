package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"streamchat/errors"
	"streamchat/streamlog"
)

const detachTimeout = 2 * time.Second

// Batch is one polled slice of the log: the raw chunks of every event
// it carried plus the position that acknowledging it will commit.
type Batch struct {
	chunks [][]byte
	last   uint64
	acked  bool
}

// Bytes reconstructs the delivered byte sequence by concatenating the
// chunks in delivery order.
func (b *Batch) Bytes() []byte {
	size := 0
	for _, chunk := range b.chunks {
		size += len(chunk)
	}
	data := make([]byte, 0, size)
	for _, chunk := range b.chunks {
		data = append(data, chunk...)
	}
	return data
}

// LogReader drives the poll, acknowledge, detach cycle of the inbound
// loop against one streamlog reader.
type LogReader struct {
	reader streamlog.Reader
	log    *slog.Logger

	detachOnce sync.Once
}

func NewLogReader(reader streamlog.Reader, log *slog.Logger) *LogReader {
	return &LogReader{reader: reader, log: log}
}

// PollNext returns the next batch, or nil when the poll window expired
// with nothing to deliver.
func (a *LogReader) PollNext(ctx context.Context) (*Batch, error) {
	events, err := a.reader.ReadNext(ctx)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, nil
	}
	batch := &Batch{chunks: make([][]byte, 0, len(events)), last: events[len(events)-1].Seq}
	for _, event := range events {
		batch.chunks = append(batch.chunks, event.Payload)
	}
	return batch, nil
}

// Acknowledge commits the batch so the group never sees it again.
// Acknowledging twice is the caller's bug, reported as invalid state.
func (a *LogReader) Acknowledge(ctx context.Context, batch *Batch) error {
	if batch == nil {
		return fmt.Errorf("%w: acknowledging a nil batch", errors.ErrInvalidState)
	}
	if batch.acked {
		return fmt.Errorf("%w: batch through position %d already acknowledged", errors.ErrInvalidState, batch.last)
	}
	if err := a.reader.Ack(ctx, batch.last); err != nil {
		return err
	}
	batch.acked = true
	return nil
}

// Detach releases the reader's slot in its group. Detaches exactly
// once however many shutdown paths reach it, and is bounded so
// shutdown never hangs on it.
func (a *LogReader) Detach() {
	a.detachOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), detachTimeout)
		defer cancel()
		if err := a.reader.Close(ctx); err != nil {
			a.log.Warn("Reader detach failed", "error", err)
		}
	})
}

// LogWriter appends encoded messages for the outbound loop.
type LogWriter struct {
	writer streamlog.Writer
	log    *slog.Logger
}

func NewLogWriter(writer streamlog.Writer, log *slog.Logger) *LogWriter {
	return &LogWriter{writer: writer, log: log}
}

// Append pushes one encoded message to the log. No automatic retry:
// the caller decides what happens to the text on failure.
func (a *LogWriter) Append(ctx context.Context, data []byte) error {
	seq, err := a.writer.Append(ctx, data)
	if err != nil {
		return err
	}
	a.log.Debug("Message appended", "position", seq)
	return nil
}

func (a *LogWriter) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), detachTimeout)
	defer cancel()
	if err := a.writer.Close(ctx); err != nil {
		a.log.Warn("Writer close failed", "error", err)
	}
}
