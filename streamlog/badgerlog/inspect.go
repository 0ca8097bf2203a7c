package badgerlog

import (
	"streamchat/streamlog"

	"github.com/dgraph-io/badger/v4"
)

// GroupCursor pairs a reader group with its committed position.
type GroupCursor struct {
	Group string
	Next  uint64
}

// ListScopes returns every scope name, key order.
func (s *Store) ListScopes() ([]string, error) {
	return s.listSuffixes([]byte("scope:"))
}

// ListStreams returns the stream names of a scope, key order.
func (s *Store) ListStreams(scope string) ([]string, error) {
	return s.listSuffixes([]byte("stream:" + scope + ":"))
}

func (s *Store) listSuffixes(prefix []byte) ([]string, error) {
	var names []string
	err := s.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		it := txn.NewIterator(options)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			names = append(names, string(it.Item().Key()[len(prefix):]))
		}
		return nil
	})
	if err != nil {
		return nil, storeErr(err)
	}
	return names, nil
}

// Groups returns the reader groups of a stream with their committed
// positions.
func (s *Store) Groups(scope, stream string) ([]GroupCursor, error) {
	prefix := []byte("grp:" + scope + ":" + stream + ":")
	var cursors []GroupCursor
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			group := string(item.Key()[len(prefix):])
			value, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			next, err := parseSeq(value)
			if err != nil {
				return err
			}
			cursors = append(cursors, GroupCursor{Group: group, Next: next})
		}
		return nil
	})
	if err != nil {
		return nil, storeErr(err)
	}
	return cursors, nil
}

// Tail returns the last limit events of a stream in append order.
// The reverse iteration seeks past the highest possible padded
// position, the same way paginated history reads work.
func (s *Store) Tail(scope, stream string, limit int) ([]streamlog.Event, error) {
	prefix := eventPrefix(scope, stream)
	var events []streamlog.Event
	err := s.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		seekKey := append(append([]byte{}, prefix...), []byte("9999999999999999999")...)
		for it.Seek(seekKey); it.ValidForPrefix(prefix); it.Next() {
			if limit > 0 && len(events) == limit {
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
			events = append(events, streamlog.Event{Seq: seq, Payload: payload})
		}
		return nil
	})
	if err != nil {
		return nil, storeErr(err)
	}
	for i, j := 0, len(events)-1; i < j; i, j = i+1, j-1 {
		events[i], events[j] = events[j], events[i]
	}
	return events, nil
}
