package remote

import (
	"context"
	"sync/atomic"

	"github.com/samber/lo"

	"streamchat/streamlog"
	"streamchat/streamlog/logrpc"
)

type reader struct {
	client *Client
	handle string
	closed atomic.Bool
}

// ReadNext long-polls the daemon. The server bounds how long it holds
// the request open, so an idle stream yields empty batches at that
// cadence rather than busy-spinning.
func (r *reader) ReadNext(ctx context.Context) ([]streamlog.Event, error) {
	var result logrpc.PollResult
	err := r.client.call(ctx, logrpc.MethodPoll, logrpc.PollParams{Handle: r.handle}, &result)
	if err != nil {
		return nil, err
	}
	return lo.Map(result.Events, func(e logrpc.Event, _ int) streamlog.Event {
		return streamlog.Event{Seq: e.Seq, Payload: e.Payload}
	}), nil
}

func (r *reader) Ack(ctx context.Context, upTo uint64) error {
	return r.client.call(ctx, logrpc.MethodAck, logrpc.AckParams{Handle: r.handle, UpTo: upTo}, new(struct{}))
}

func (r *reader) Close(ctx context.Context) error {
	if !r.closed.CompareAndSwap(false, true) {
		return nil
	}
	return r.client.call(ctx, logrpc.MethodDetach, logrpc.DetachParams{Handle: r.handle}, new(struct{}))
}

type writer struct {
	client *Client
	scope  string
	stream string
}

func (w *writer) Append(ctx context.Context, payload []byte) (uint64, error) {
	var result logrpc.AppendResult
	params := logrpc.AppendParams{Scope: w.scope, Stream: w.stream, Payload: payload}
	if err := w.client.call(ctx, logrpc.MethodAppend, params, &result); err != nil {
		return 0, err
	}
	return result.Seq, nil
}

// Close is a no-op, appends are stateless server side.
func (w *writer) Close(context.Context) error {
	return nil
}

var (
	_ streamlog.Reader = (*reader)(nil)
	_ streamlog.Writer = (*writer)(nil)
)
