//go:generate go run go.uber.org/mock/mockgen -source=streamlog.go -destination=../mocks/mock_streamlog.go -package=mocks
// Package streamlog defines the durable append-log contract chat
// sessions run on. A stream lives inside a scope, carries opaque
// payloads in append order, and is consumed through named reader
// groups that remember how far they have read.
package streamlog

import "context"

// Event is one durably appended payload and its position in the stream.
// Positions are strictly increasing but not necessarily contiguous.
type Event struct {
	Seq     uint64
	Payload []byte
}

// Manager provisions scopes, streams and reader groups, and opens the
// endpoints sessions read and write through. Creation calls are
// idempotent and report whether they actually created anything.
type Manager interface {
	CreateScope(ctx context.Context, scope string) (bool, error)
	CreateStream(ctx context.Context, scope, stream string) (bool, error)
	CreateReaderGroup(ctx context.Context, scope, stream, group string) (bool, error)
	OpenReader(ctx context.Context, scope, stream, group, readerID string) (Reader, error)
	OpenWriter(ctx context.Context, scope, stream string) (Writer, error)
	Close() error
}

// Reader tails one stream on behalf of a reader group.
//
// ReadNext blocks until at least one event past the reader position is
// available, the poll window elapses (empty batch, nil error), or ctx
// is done. Delivered events advance the in-memory position only; the
// group cursor moves when Ack commits it. A reader that crashes before
// Ack sees its events again on reopen, so delivery is at-least-once.
type Reader interface {
	ReadNext(ctx context.Context) ([]Event, error)
	Ack(ctx context.Context, upTo uint64) error
	Close(ctx context.Context) error
}

// Writer appends payloads to one stream and returns their positions.
type Writer interface {
	Append(ctx context.Context, payload []byte) (uint64, error)
	Close(ctx context.Context) error
}
