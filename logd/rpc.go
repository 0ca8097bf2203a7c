package logd

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/sourcegraph/jsonrpc2"

	"streamchat/errors"
	"streamchat/search"
	"streamchat/streamlog"
	"streamchat/streamlog/logrpc"
)

// methodHandler serves one connection. Reader handles are connection
// scoped: they die with the socket, and the readers they point at are
// detached on cleanup.
type methodHandler struct {
	server *Server
	log    *slog.Logger

	mu      sync.Mutex
	readers map[string]streamlog.Reader
}

func (h *methodHandler) Handle(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	h.log.Debug("Request received", "method", req.Method, "id", req.ID)

	switch req.Method {
	case logrpc.MethodCreateScope:
		handle(ctx, h, conn, req, h.createScope)
	case logrpc.MethodCreateStream:
		handle(ctx, h, conn, req, h.createStream)
	case logrpc.MethodCreateReaderGroup:
		handle(ctx, h, conn, req, h.createReaderGroup)
	case logrpc.MethodOpenReader:
		handle(ctx, h, conn, req, h.openReader)
	case logrpc.MethodOpenWriter:
		handle(ctx, h, conn, req, h.openWriter)
	case logrpc.MethodPoll:
		handle(ctx, h, conn, req, h.poll)
	case logrpc.MethodAck:
		handle(ctx, h, conn, req, h.ack)
	case logrpc.MethodDetach:
		handle(ctx, h, conn, req, h.detach)
	case logrpc.MethodAppend:
		handle(ctx, h, conn, req, h.append)
	case logrpc.MethodSearch:
		handle(ctx, h, conn, req, h.search)
	default:
		h.replyError(ctx, conn, req.ID, &jsonrpc2.Error{
			Code:    jsonrpc2.CodeMethodNotFound,
			Message: "method not found: " + req.Method,
		})
	}
}

// handle decodes params, runs the method and sends exactly one reply.
func handle[P, R any](ctx context.Context, h *methodHandler, conn *jsonrpc2.Conn, req *jsonrpc2.Request, method func(context.Context, P) (R, error)) {
	var params P
	if err := unmarshalParams(req, &params); err != nil {
		h.replyError(ctx, conn, req.ID, &jsonrpc2.Error{
			Code:    jsonrpc2.CodeInvalidParams,
			Message: "invalid params for " + req.Method,
		})
		return
	}
	result, err := method(ctx, params)
	if err != nil {
		h.log.Warn("Request failed", "method", req.Method, "error", err)
		h.replyError(ctx, conn, req.ID, logrpc.ToRPCError(err))
		return
	}
	if err := conn.Reply(ctx, req.ID, result); err != nil {
		h.log.Error("Failed to send reply", "method", req.Method, "error", err)
	}
}

func unmarshalParams(req *jsonrpc2.Request, v any) error {
	if req.Params == nil {
		return stderrors.New("params required")
	}
	return json.Unmarshal(*req.Params, v)
}

func (h *methodHandler) replyError(ctx context.Context, conn *jsonrpc2.Conn, id jsonrpc2.ID, rpcErr *jsonrpc2.Error) {
	if err := conn.ReplyWithError(ctx, id, rpcErr); err != nil {
		h.log.Error("Failed to send error reply", "error", err)
	}
}

func (h *methodHandler) createScope(ctx context.Context, params logrpc.CreateScopeParams) (logrpc.CreatedResult, error) {
	created, err := h.server.store.CreateScope(ctx, params.Scope)
	return logrpc.CreatedResult{Created: created}, err
}

func (h *methodHandler) createStream(ctx context.Context, params logrpc.CreateStreamParams) (logrpc.CreatedResult, error) {
	created, err := h.server.store.CreateStream(ctx, params.Scope, params.Stream)
	return logrpc.CreatedResult{Created: created}, err
}

func (h *methodHandler) createReaderGroup(ctx context.Context, params logrpc.CreateReaderGroupParams) (logrpc.CreatedResult, error) {
	created, err := h.server.store.CreateReaderGroup(ctx, params.Scope, params.Stream, params.Group)
	return logrpc.CreatedResult{Created: created}, err
}

func (h *methodHandler) openReader(ctx context.Context, params logrpc.OpenReaderParams) (logrpc.OpenReaderResult, error) {
	reader, err := h.server.store.OpenReader(ctx, params.Scope, params.Stream, params.Group, params.ReaderID)
	if err != nil {
		return logrpc.OpenReaderResult{}, err
	}
	handle := uuid.NewString()
	h.mu.Lock()
	if h.readers == nil {
		h.readers = make(map[string]streamlog.Reader)
	}
	h.readers[handle] = reader
	h.mu.Unlock()
	return logrpc.OpenReaderResult{Handle: handle}, nil
}

func (h *methodHandler) openWriter(ctx context.Context, params logrpc.OpenWriterParams) (struct{}, error) {
	// Validates the stream exists; appends themselves are stateless.
	writer, err := h.server.store.OpenWriter(ctx, params.Scope, params.Stream)
	if err != nil {
		return struct{}{}, err
	}
	return struct{}{}, writer.Close(ctx)
}

func (h *methodHandler) poll(ctx context.Context, params logrpc.PollParams) (logrpc.PollResult, error) {
	reader, err := h.reader(params.Handle)
	if err != nil {
		return logrpc.PollResult{}, err
	}
	h.server.obs.IncrPolls()

	wait := h.server.maxPollWait
	if params.WaitMS > 0 {
		if asked := time.Duration(params.WaitMS) * time.Millisecond; asked < wait {
			wait = asked
		}
	}
	pollCtx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()

	events, err := reader.ReadNext(pollCtx)
	if stderrors.Is(err, context.DeadlineExceeded) {
		// The hold window elapsed, an empty poll, not a failure.
		return logrpc.PollResult{}, nil
	}
	if err != nil {
		return logrpc.PollResult{}, err
	}
	return logrpc.PollResult{Events: lo.Map(events, func(e streamlog.Event, _ int) logrpc.Event {
		return logrpc.Event{Seq: e.Seq, Payload: e.Payload}
	})}, nil
}

func (h *methodHandler) ack(ctx context.Context, params logrpc.AckParams) (struct{}, error) {
	reader, err := h.reader(params.Handle)
	if err != nil {
		return struct{}{}, err
	}
	if err := reader.Ack(ctx, params.UpTo); err != nil {
		return struct{}{}, err
	}
	h.server.obs.IncrAcks()
	return struct{}{}, nil
}

func (h *methodHandler) detach(ctx context.Context, params logrpc.DetachParams) (struct{}, error) {
	h.mu.Lock()
	reader, ok := h.readers[params.Handle]
	delete(h.readers, params.Handle)
	h.mu.Unlock()
	if !ok {
		// Detach is idempotent end to end, unknown handles included.
		return struct{}{}, nil
	}
	return struct{}{}, reader.Close(ctx)
}

func (h *methodHandler) append(ctx context.Context, params logrpc.AppendParams) (logrpc.AppendResult, error) {
	writer, err := h.server.store.OpenWriter(ctx, params.Scope, params.Stream)
	if err != nil {
		return logrpc.AppendResult{}, err
	}
	defer func() { _ = writer.Close(ctx) }()

	seq, err := writer.Append(ctx, params.Payload)
	if err != nil {
		return logrpc.AppendResult{}, err
	}
	h.server.obs.IncrAppends()
	h.server.indexAppend(params.Scope, params.Stream, seq, params.Payload)
	return logrpc.AppendResult{Seq: seq}, nil
}

func (h *methodHandler) search(ctx context.Context, params logrpc.SearchParams) (logrpc.SearchResult, error) {
	hits, err := h.server.index.Search(ctx, params.Query, params.Limit)
	if err != nil {
		return logrpc.SearchResult{}, err
	}
	h.server.obs.IncrSearches()
	return logrpc.SearchResult{Hits: lo.Map(hits, func(e search.Entry, _ int) logrpc.Hit {
		return logrpc.Hit{Scope: e.Scope, Stream: e.Stream, Seq: e.Seq, Sender: e.Sender, Text: e.Text}
	})}, nil
}

func (h *methodHandler) reader(handle string) (streamlog.Reader, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	reader, ok := h.readers[handle]
	if !ok {
		return nil, fmt.Errorf("%w: unknown reader handle %s", errors.ErrInvalidState, handle)
	}
	return reader, nil
}

// cleanup detaches every reader the connection left open.
func (h *methodHandler) cleanup() {
	h.mu.Lock()
	readers := h.readers
	h.readers = nil
	h.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	for handle, reader := range readers {
		if err := reader.Close(ctx); err != nil {
			h.log.Warn("Reader cleanup failed", "handle", handle, "error", err)
		}
	}
}
