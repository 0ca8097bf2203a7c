// Package badgerlog persists streams in BadgerDB and serves them with
// the streamlog contract. It is the storage engine behind the log
// daemon and can also be embedded directly for tests and tooling.
package badgerlog

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"streamchat/errors"
	"streamchat/streamlog"

	"github.com/dgraph-io/badger/v4"
)

const (
	defaultPollTimeout = 2 * time.Second
	defaultBatchLimit  = 64

	// Sequence numbers are leased in blocks, so a restart may skip
	// ahead. Positions stay strictly increasing, never contiguous.
	seqBandwidth = 128
)

// Options tune a Store. Zero values fall back to defaults.
type Options struct {
	// PollTimeout bounds how long ReadNext blocks before reporting
	// an empty batch.
	PollTimeout time.Duration
	// BatchLimit caps how many events one ReadNext delivers.
	BatchLimit int
}

// Store implements streamlog.Manager on top of a single BadgerDB.
//
// Key layout, all ASCII so the inspect tooling stays readable:
//
//	scope:{scope}                     -> creation timestamp
//	stream:{scope}:{stream}           -> creation timestamp
//	evt:{scope}:{stream}:{seq}        -> raw payload
//	grp:{scope}:{stream}:{group}      -> next position to deliver
//	seq:{scope}:{stream}              -> badger sequence state
//
// Sequence numbers are zero padded to 19 digits so that byte order
// equals numeric order and a prefix scan returns events in append
// order.
type Store struct {
	db          *badger.DB
	log         *slog.Logger
	pollTimeout time.Duration
	batchLimit  int

	mu   sync.Mutex
	seqs map[string]*badger.Sequence
	wake map[string]chan struct{}
}

func NewStore(db *badger.DB, log *slog.Logger, opts Options) *Store {
	if opts.PollTimeout <= 0 {
		opts.PollTimeout = defaultPollTimeout
	}
	if opts.BatchLimit <= 0 {
		opts.BatchLimit = defaultBatchLimit
	}
	return &Store{
		db:          db,
		log:         log,
		pollTimeout: opts.PollTimeout,
		batchLimit:  opts.BatchLimit,
		seqs:        make(map[string]*badger.Sequence),
		wake:        make(map[string]chan struct{}),
	}
}

func scopeKey(scope string) []byte {
	return []byte("scope:" + scope)
}

func streamKey(scope, stream string) []byte {
	return []byte(fmt.Sprintf("stream:%s:%s", scope, stream))
}

func eventKey(scope, stream string, seq uint64) []byte {
	return []byte(fmt.Sprintf("evt:%s:%s:%019d", scope, stream, seq))
}

func eventPrefix(scope, stream string) []byte {
	return []byte(fmt.Sprintf("evt:%s:%s:", scope, stream))
}

func groupKey(scope, stream, group string) []byte {
	return []byte(fmt.Sprintf("grp:%s:%s:%s", scope, stream, group))
}

func seqKey(scope, stream string) []byte {
	return []byte(fmt.Sprintf("seq:%s:%s", scope, stream))
}

func formatSeq(seq uint64) []byte {
	return []byte(fmt.Sprintf("%019d", seq))
}

func parseSeq(value []byte) (uint64, error) {
	return strconv.ParseUint(string(value), 10, 64)
}

func stamp() []byte {
	return []byte(strconv.FormatInt(time.Now().UTC().UnixNano(), 10))
}

// validName keeps the colon free for key separation.
func validName(name string) error {
	if name == "" || strings.Contains(name, ":") {
		return fmt.Errorf("%w: invalid name %q", errors.ErrInvalidState, name)
	}
	return nil
}

// storeErr files raw storage failures under the transport error
// without double wrapping taxonomy sentinels.
func storeErr(err error) error {
	switch {
	case err == nil:
		return nil
	case stderrors.Is(err, errors.ErrInvalidState),
		stderrors.Is(err, errors.ErrScopeNotFound),
		stderrors.Is(err, errors.ErrStreamNotFound),
		stderrors.Is(err, errors.ErrGroupNotFound):
		return err
	default:
		return fmt.Errorf("%w: %v", errors.ErrTransport, err)
	}
}

// CreateScope registers a scope. Returns false when it already existed.
func (s *Store) CreateScope(_ context.Context, scope string) (bool, error) {
	if err := validName(scope); err != nil {
		return false, err
	}
	return s.createMarker(scopeKey(scope), nil)
}

// CreateStream registers a stream inside an existing scope.
func (s *Store) CreateStream(_ context.Context, scope, stream string) (bool, error) {
	if err := validName(scope); err != nil {
		return false, err
	}
	if err := validName(stream); err != nil {
		return false, err
	}
	return s.createMarker(streamKey(scope, stream), &requirement{
		key: scopeKey(scope),
		err: fmt.Errorf("%w: %s", errors.ErrScopeNotFound, scope),
	})
}

// CreateReaderGroup registers a group on an existing stream. A fresh
// group starts at position zero and replays the stream from the
// beginning; recreating it keeps the committed position untouched.
func (s *Store) CreateReaderGroup(_ context.Context, scope, stream, group string) (bool, error) {
	if err := validName(group); err != nil {
		return false, err
	}
	created := false
	err := s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(streamKey(scope, stream)); err == badger.ErrKeyNotFound {
			return fmt.Errorf("%w: %s/%s", errors.ErrStreamNotFound, scope, stream)
		} else if err != nil {
			return err
		}
		key := groupKey(scope, stream, group)
		_, err := txn.Get(key)
		if err == nil {
			return nil
		}
		if err != badger.ErrKeyNotFound {
			return err
		}
		created = true
		return txn.Set(key, formatSeq(0))
	})
	if err != nil {
		return false, storeErr(err)
	}
	return created, nil
}

// OpenReader resumes a group at its committed position.
func (s *Store) OpenReader(_ context.Context, scope, stream, group, readerID string) (streamlog.Reader, error) {
	var next uint64
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(groupKey(scope, stream, group))
		if err == badger.ErrKeyNotFound {
			return fmt.Errorf("%w: %s/%s/%s", errors.ErrGroupNotFound, scope, stream, group)
		}
		if err != nil {
			return err
		}
		value, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		next, err = parseSeq(value)
		return err
	})
	if err != nil {
		return nil, storeErr(err)
	}
	s.log.Debug("Reader attached", "scope", scope, "stream", stream, "group", group, "reader", readerID, "position", next)
	return &reader{store: s, scope: scope, stream: stream, group: group, id: readerID, next: next}, nil
}

// OpenWriter opens an append endpoint on an existing stream. Writers of
// the same stream share one sequence, so positions follow append order
// within a process.
func (s *Store) OpenWriter(_ context.Context, scope, stream string) (streamlog.Writer, error) {
	err := s.db.View(func(txn *badger.Txn) error {
		if _, err := txn.Get(streamKey(scope, stream)); err == badger.ErrKeyNotFound {
			return fmt.Errorf("%w: %s/%s", errors.ErrStreamNotFound, scope, stream)
		} else if err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, storeErr(err)
	}
	seq, err := s.sequence(scope, stream)
	if err != nil {
		return nil, storeErr(err)
	}
	return &writer{store: s, scope: scope, stream: stream, seq: seq}, nil
}

// Close releases the leased sequences. The BadgerDB handle belongs to
// the caller and stays open.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var firstErr error
	for key, seq := range s.seqs {
		if err := seq.Release(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(s.seqs, key)
	}
	return firstErr
}

type requirement struct {
	key []byte
	err error
}

func (s *Store) createMarker(key []byte, requires *requirement) (bool, error) {
	created := false
	err := s.db.Update(func(txn *badger.Txn) error {
		if requires != nil {
			if _, err := txn.Get(requires.key); err == badger.ErrKeyNotFound {
				return requires.err
			} else if err != nil {
				return err
			}
		}
		_, err := txn.Get(key)
		if err == nil {
			return nil
		}
		if err != badger.ErrKeyNotFound {
			return err
		}
		created = true
		return txn.Set(key, stamp())
	})
	if err != nil {
		return false, storeErr(err)
	}
	return created, nil
}

func (s *Store) sequence(scope, stream string) (*badger.Sequence, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := scope + "/" + stream
	if seq, ok := s.seqs[key]; ok {
		return seq, nil
	}
	seq, err := s.db.GetSequence(seqKey(scope, stream), seqBandwidth)
	if err != nil {
		return nil, err
	}
	s.seqs[key] = seq
	return seq, nil
}

// waiter hands out the wakeup channel appends will close. Callers must
// grab it before scanning, otherwise an append landing between scan and
// wait would be missed.
func (s *Store) waiter(scope, stream string) <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := scope + "/" + stream
	ch, ok := s.wake[key]
	if !ok {
		ch = make(chan struct{})
		s.wake[key] = ch
	}
	return ch
}

func (s *Store) notifyAppend(scope, stream string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := scope + "/" + stream
	if ch, ok := s.wake[key]; ok {
		close(ch)
		delete(s.wake, key)
	}
}
