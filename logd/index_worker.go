package logd

import (
	"context"
	"log/slog"

	"streamchat/search"
)

// IndexWorker drains the append queue into the search index. It runs
// supervised next to the health worker, a crash restarts it without
// touching the RPC surface.
type IndexWorker struct {
	log   *slog.Logger
	index *search.Index
	queue <-chan search.Entry
}

func NewIndexWorker(log *slog.Logger, index *search.Index, server *Server) *IndexWorker {
	return &IndexWorker{log: log, index: index, queue: server.indexQueue}
}

func (w *IndexWorker) Run(ctx context.Context) error {
	w.log.Info("Starting index worker")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case entry := <-w.queue:
			if err := w.index.Add(entry); err != nil {
				w.log.Error("Failed to index message",
					"scope", entry.Scope,
					"stream", entry.Stream,
					"seq", entry.Seq,
					"error", err)
				continue
			}
			w.log.Debug("Message indexed", "scope", entry.Scope, "stream", entry.Stream, "seq", entry.Seq)
		}
	}
}
