package badgerlog

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"streamchat/errors"
	"streamchat/streamlog"

	"github.com/dgraph-io/badger/v4"
)

type reader struct {
	store  *Store
	scope  string
	stream string
	group  string
	id     string
	next   uint64
	closed atomic.Bool
}

// ReadNext scans forward from the reader position and blocks on the
// stream wakeup channel while the log is quiet. The position advances
// in memory only; Ack moves the durable group cursor.
func (r *reader) ReadNext(ctx context.Context) ([]streamlog.Event, error) {
	if r.closed.Load() {
		return nil, fmt.Errorf("%w: reader %s is detached", errors.ErrInvalidState, r.id)
	}
	timeout := time.NewTimer(r.store.pollTimeout)
	defer timeout.Stop()
	for {
		// Grab the wakeup channel before scanning so an append landing
		// in between still wakes us.
		wake := r.store.waiter(r.scope, r.stream)
		batch, err := r.scan()
		if err != nil {
			return nil, err
		}
		if len(batch) > 0 {
			r.next = batch[len(batch)-1].Seq + 1
			return batch, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timeout.C:
			return nil, nil
		case <-wake:
		}
	}
}

func (r *reader) scan() ([]streamlog.Event, error) {
	var batch []streamlog.Event
	prefix := eventPrefix(r.scope, r.stream)
	err := r.store.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(eventKey(r.scope, r.stream, r.next)); it.ValidForPrefix(prefix); it.Next() {
			if len(batch) == r.store.batchLimit {
				break
			}
			item := it.Item()
			seq, err := parseSeq(item.Key()[len(prefix):])
			if err != nil {
				return err
			}
			payload, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			batch = append(batch, streamlog.Event{Seq: seq, Payload: payload})
		}
		return nil
	})
	if err != nil {
		return nil, storeErr(err)
	}
	return batch, nil
}

// Ack commits the group cursor just past upTo. Moving it backwards is
// rejected, acknowledging the same batch twice included.
func (r *reader) Ack(_ context.Context, upTo uint64) error {
	if r.closed.Load() {
		return fmt.Errorf("%w: reader %s is detached", errors.ErrInvalidState, r.id)
	}
	next := upTo + 1
	err := r.store.db.Update(func(txn *badger.Txn) error {
		key := groupKey(r.scope, r.stream, r.group)
		item, err := txn.Get(key)
		if err == badger.ErrKeyNotFound {
			return fmt.Errorf("%w: %s/%s/%s", errors.ErrGroupNotFound, r.scope, r.stream, r.group)
		}
		if err != nil {
			return err
		}
		value, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		committed, err := parseSeq(value)
		if err != nil {
			return err
		}
		if next <= committed {
			return fmt.Errorf("%w: position %d already acknowledged", errors.ErrInvalidState, upTo)
		}
		return txn.Set(key, formatSeq(next))
	})
	return storeErr(err)
}

// Close detaches the reader from its group. Calling it twice is fine.
func (r *reader) Close(_ context.Context) error {
	if !r.closed.CompareAndSwap(false, true) {
		return nil
	}
	r.store.log.Debug("Reader detached", "scope", r.scope, "stream", r.stream, "group", r.group, "reader", r.id)
	return nil
}
