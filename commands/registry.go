// Package commands maps reserved message keywords to locally computed
// replies. Anything that is not a registered keyword passes through
// untouched.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Handler produces the reply text for one keyword. Handlers may block
// on I/O and must report failures instead of panicking; a failed
// handler never takes the session down.
type Handler func(ctx context.Context, sender string) (string, error)

// Registry is populated once at session setup and read-only afterwards,
// so dispatch needs no locking.
type Registry struct {
	log      *slog.Logger
	handlers map[string]Handler
}

func NewRegistry(log *slog.Logger) *Registry {
	return &Registry{log: log, handlers: make(map[string]Handler)}
}

// Register binds a keyword to a handler. Keywords are normalized to
// lower case; senders type them lowercased anyway since input is case
// folded before it is appended.
func (r *Registry) Register(keyword string, handler Handler) *Registry {
	r.handlers[strings.ToLower(strings.TrimSpace(keyword))] = handler
	return r
}

// Dispatch resolves text to a reply. Exact keyword matches invoke the
// handler; everything else echoes back unchanged. Handler failures are
// logged and replaced by a placeholder reply.
func (r *Registry) Dispatch(ctx context.Context, text, sender string) string {
	handler, ok := r.handlers[text]
	if !ok {
		return text
	}
	reply, err := handler(ctx, sender)
	if err != nil {
		r.log.Error("Command handler failed", "keyword", text, "error", err)
		return fmt.Sprintf("%s command failed, try again later", text)
	}
	return reply
}

// Greet replies with a salute on behalf of whoever sent the keyword.
func Greet() Handler {
	return func(_ context.Context, sender string) (string, error) {
		return fmt.Sprintf("%s says hi!", sender), nil
	}
}
