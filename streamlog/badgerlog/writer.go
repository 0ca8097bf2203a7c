package badgerlog

import (
	"context"
	"fmt"
	"sync/atomic"

	"streamchat/errors"

	"github.com/dgraph-io/badger/v4"
)

type writer struct {
	store  *Store
	scope  string
	stream string
	seq    *badger.Sequence
	closed atomic.Bool
}

// Append claims the next position, persists the payload under it and
// wakes blocked readers of the stream.
func (w *writer) Append(_ context.Context, payload []byte) (uint64, error) {
	if w.closed.Load() {
		return 0, fmt.Errorf("%w: writer already closed", errors.ErrInvalidState)
	}
	seq, err := w.seq.Next()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", errors.ErrTransport, err)
	}
	err = w.store.db.Update(func(txn *badger.Txn) error {
		return txn.Set(eventKey(w.scope, w.stream, seq), payload)
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", errors.ErrTransport, err)
	}
	w.store.notifyAppend(w.scope, w.stream)
	return seq, nil
}

func (w *writer) Close(_ context.Context) error {
	w.closed.Store(true)
	return nil
}
