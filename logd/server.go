// Package logd is the log service daemon: the embedded Badger store
// served over WebSocket with JSON-RPC framing, plus health and stats
// endpoints, plus the best effort search index over appended messages.
package logd

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sourcegraph/jsonrpc2"

	"streamchat/observability"
	"streamchat/search"
	"streamchat/streamlog/badgerlog"
	"streamchat/streamlog/logrpc"
	"streamchat/wire"
)

const (
	defaultMaxPollWait = 30 * time.Second
	defaultIndexBuffer = 256
)

// Options tune the daemon surface. Zero values fall back to defaults.
type Options struct {
	// MaxPollWait caps how long one log.poll request may be held open,
	// whatever the client asked for.
	MaxPollWait time.Duration
	// IndexBuffer sizes the queue between the append path and the
	// index worker.
	IndexBuffer int
}

// Server owns the RPC surface over one store. Connections are
// independent, each carries its own reader handles.
type Server struct {
	log         *slog.Logger
	store       *badgerlog.Store
	index       *search.Index
	obs         *observability.Manager
	maxPollWait time.Duration
	indexQueue  chan search.Entry
}

func NewServer(log *slog.Logger, store *badgerlog.Store, index *search.Index, obs *observability.Manager, opts Options) *Server {
	if opts.MaxPollWait <= 0 {
		opts.MaxPollWait = defaultMaxPollWait
	}
	if opts.IndexBuffer <= 0 {
		opts.IndexBuffer = defaultIndexBuffer
	}
	return &Server{
		log:         log,
		store:       store,
		index:       index,
		obs:         obs,
		maxPollWait: opts.MaxPollWait,
		indexQueue:  make(chan search.Entry, opts.IndexBuffer),
	}
}

// Handler builds the HTTP surface: liveness, stats snapshot and the
// WebSocket RPC endpoint.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("GET /debug/stats", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(s.obs.Snapshot()); err != nil {
			s.log.Error("Failed to serve stats", "error", err)
		}
	})

	mux.HandleFunc("GET /ws", s.serveWS)

	return mux
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.log.Error("Failed to accept websocket", "error", err)
		return
	}
	s.handleConnection(r.Context(), conn)
}

func (s *Server) handleConnection(ctx context.Context, ws *websocket.Conn) {
	connID := uuid.Must(uuid.NewV7()).String()
	log := s.log.With("connId", connID)
	log.Info("Connection opened")
	s.obs.ConnOpened()

	handler := &methodHandler{server: s, log: log}
	stream := logrpc.NewObjectStream(ws)
	conn := jsonrpc2.NewConn(ctx, stream, jsonrpc2.AsyncHandler(handler))

	<-conn.DisconnectNotify()

	handler.cleanup()
	s.obs.ConnClosed()
	log.Info("Connection closed")
}

// indexAppend queues a decodable payload for the index worker. A full
// queue drops the entry, search is not allowed to slow appends down.
func (s *Server) indexAppend(scope, stream string, seq uint64, payload []byte) {
	msg, err := wire.Decode(payload)
	if err != nil {
		// Opaque payloads are legal log content, just not searchable.
		return
	}
	entry := search.Entry{Scope: scope, Stream: stream, Seq: seq, Sender: msg.Sender, Text: msg.Text}
	select {
	case s.indexQueue <- entry:
	default:
		s.log.Warn("Index queue full, entry skipped", "scope", scope, "stream", stream, "seq", seq)
	}
}
