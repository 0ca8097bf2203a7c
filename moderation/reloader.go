package moderation

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 300 * time.Millisecond

// Reloader watches a directory of .txt dictionaries and swaps a
// rebuilt moderator into the holder whenever they change. Rapid saves
// are debounced into one rebuild.
type Reloader struct {
	holder       *Holder
	dir          string
	censoredChar rune
	log          *slog.Logger
}

func NewReloader(holder *Holder, dir string, censoredChar rune, log *slog.Logger) *Reloader {
	return &Reloader{holder: holder, dir: dir, censoredChar: censoredChar, log: log}
}

// Run blocks until ctx is done. A broken dictionary never replaces a
// working moderator, the previous one stays active.
func (r *Reloader) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(r.dir); err != nil {
		return err
	}
	r.log.Info("Watching censored dictionaries", "dir", r.dir)

	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case evt, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(evt.Name, ".txt") {
				continue
			}
			if evt.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			debounce = time.After(reloadDebounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.log.Warn("Dictionary watcher error", "error", err)
		case <-debounce:
			debounce = nil
			r.reload()
		}
	}
}

func (r *Reloader) reload() {
	data, err := NewLoader(os.DirFS(r.dir)).LoadAll(".")
	if err != nil {
		r.log.Warn("Keeping previous censored words", "error", err)
		return
	}
	moderator, err := NewModerator(data.Words, r.censoredChar, r.log)
	if err != nil {
		r.log.Warn("Keeping previous moderator", "error", err)
		return
	}
	r.holder.Swap(moderator)
	r.log.Info("Censored words reloaded", "files", len(data.Languages), "words", len(data.Words))
}
