// Package remote implements the streamlog contract against a log
// daemon, over one WebSocket connection carrying JSON-RPC 2.0 calls.
// Session code cannot tell it apart from the embedded store.
package remote

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"

	"github.com/coder/websocket"
	"github.com/sourcegraph/jsonrpc2"

	"streamchat/errors"
	"streamchat/streamlog"
	"streamchat/streamlog/logrpc"
)

// Client speaks to one daemon. Concurrent calls are safe, jsonrpc2
// correlates responses by request id.
type Client struct {
	log  *slog.Logger
	conn *jsonrpc2.Conn
}

// Dial connects to the daemon's /ws endpoint, ws:// or wss:// URL.
func Dial(ctx context.Context, url string, log *slog.Logger) (*Client, error) {
	ws, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: dialing %s: %v", errors.ErrTransport, url, err)
	}
	stream := logrpc.NewObjectStream(ws)
	conn := jsonrpc2.NewConn(context.Background(), stream, noopHandler{})
	log.Debug("Connected to log daemon", "url", url)
	return &Client{log: log, conn: conn}, nil
}

// noopHandler drops server-initiated requests, the daemon never sends
// any.
type noopHandler struct{}

func (noopHandler) Handle(context.Context, *jsonrpc2.Conn, *jsonrpc2.Request) {}

func (c *Client) call(ctx context.Context, method string, params, result any) error {
	err := c.conn.Call(ctx, method, params, result)
	if err == nil {
		return nil
	}
	var rpcErr *jsonrpc2.Error
	if stderrors.As(err, &rpcErr) {
		return logrpc.FromRPCError(rpcErr)
	}
	return fmt.Errorf("%w: %s: %v", errors.ErrTransport, method, err)
}

func (c *Client) CreateScope(ctx context.Context, scope string) (bool, error) {
	var result logrpc.CreatedResult
	err := c.call(ctx, logrpc.MethodCreateScope, logrpc.CreateScopeParams{Scope: scope}, &result)
	return result.Created, err
}

func (c *Client) CreateStream(ctx context.Context, scope, stream string) (bool, error) {
	var result logrpc.CreatedResult
	err := c.call(ctx, logrpc.MethodCreateStream, logrpc.CreateStreamParams{Scope: scope, Stream: stream}, &result)
	return result.Created, err
}

func (c *Client) CreateReaderGroup(ctx context.Context, scope, stream, group string) (bool, error) {
	var result logrpc.CreatedResult
	err := c.call(ctx, logrpc.MethodCreateReaderGroup, logrpc.CreateReaderGroupParams{Scope: scope, Stream: stream, Group: group}, &result)
	return result.Created, err
}

// OpenReader attaches to the group server side and returns the local
// end holding the handle.
func (c *Client) OpenReader(ctx context.Context, scope, stream, group, readerID string) (streamlog.Reader, error) {
	var result logrpc.OpenReaderResult
	params := logrpc.OpenReaderParams{Scope: scope, Stream: stream, Group: group, ReaderID: readerID}
	if err := c.call(ctx, logrpc.MethodOpenReader, params, &result); err != nil {
		return nil, err
	}
	return &reader{client: c, handle: result.Handle}, nil
}

func (c *Client) OpenWriter(ctx context.Context, scope, stream string) (streamlog.Writer, error) {
	params := logrpc.OpenWriterParams{Scope: scope, Stream: stream}
	if err := c.call(ctx, logrpc.MethodOpenWriter, params, new(struct{})); err != nil {
		return nil, err
	}
	return &writer{client: c, scope: scope, stream: stream}, nil
}

// Search asks the daemon's full text index for messages matching the
// query. Not part of the streamlog contract, chat tooling only.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]logrpc.Hit, error) {
	var result logrpc.SearchResult
	if err := c.call(ctx, logrpc.MethodSearch, logrpc.SearchParams{Query: query, Limit: limit}, &result); err != nil {
		return nil, err
	}
	return result.Hits, nil
}

// Close tears the connection down. Server side reader handles die with
// it.
func (c *Client) Close() error {
	return c.conn.Close()
}

var _ streamlog.Manager = (*Client)(nil)
