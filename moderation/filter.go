package moderation

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/abadojack/whatlanggo"

	"streamchat/contract"
	"streamchat/domain"
)

// Holder publishes the active moderator and lets the reloader swap in
// a rebuilt one without stopping the session.
type Holder struct {
	current atomic.Pointer[Moderator]
}

func NewHolder(m Moderator) *Holder {
	h := &Holder{}
	h.current.Store(&m)
	return h
}

func (h *Holder) Current() *Moderator {
	return h.current.Load()
}

func (h *Holder) Swap(m Moderator) {
	h.current.Store(&m)
}

// DisplayFilter censors lines on their way to the display and records
// the detected language of offending messages.
type DisplayFilter struct {
	holder *Holder
	next   contract.DisplaySink
	log    *slog.Logger
}

func NewDisplayFilter(holder *Holder, next contract.DisplaySink, log *slog.Logger) *DisplayFilter {
	return &DisplayFilter{holder: holder, next: next, log: log}
}

func (f *DisplayFilter) Display(ctx context.Context, msg domain.Message) error {
	sanitized, found := f.holder.Current().Censor(msg.Text)
	if len(found) > 0 {
		info := whatlanggo.Detect(msg.Text)
		f.log.Info("Censored message",
			"sender", msg.Sender,
			"words", len(found),
			"lang", info.Lang.Iso6391())
	}
	return f.next.Display(ctx, domain.NewMessage(msg.Sender, sanitized))
}

var _ contract.DisplaySink = (*DisplayFilter)(nil)
