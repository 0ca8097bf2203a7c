// Package search keeps a full text index over every decodable message
// appended to the daemon. Indexing is best effort and never blocks the
// append path.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/blugelabs/bluge"

	"streamchat/errors"
)

const defaultLimit = 10

// Entry is one indexed message and where it lives in the log.
type Entry struct {
	Scope  string
	Stream string
	Seq    uint64
	Sender string
	Text   string
}

// Index wraps a bluge writer on disk. The writer doubles as the read
// path through its near real time reader.
type Index struct {
	log    *slog.Logger
	writer *bluge.Writer
}

func Open(path string, log *slog.Logger) (*Index, error) {
	writer, err := bluge.OpenWriter(bluge.DefaultConfig(path))
	if err != nil {
		return nil, fmt.Errorf("opening search index: %w", err)
	}
	return &Index{log: log, writer: writer}, nil
}

// Add indexes one message. Re-adding the same log position replaces
// the previous document, so redelivered events cannot duplicate hits.
func (i *Index) Add(entry Entry) error {
	doc := bluge.NewDocument(docID(entry)).
		AddField(bluge.NewKeywordField("scope", entry.Scope).StoreValue()).
		AddField(bluge.NewKeywordField("stream", entry.Stream).StoreValue()).
		AddField(bluge.NewTextField("sender", entry.Sender).StoreValue()).
		AddField(bluge.NewTextField("message", entry.Text).StoreValue()).
		AddField(bluge.NewNumericField("seq", float64(entry.Seq)).StoreValue())
	return i.writer.Update(doc.ID(), doc)
}

// Search matches the query against message text and returns the best
// hits with their stored fields.
func (i *Index) Search(ctx context.Context, query string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	reader, err := i.writer.Reader()
	if err != nil {
		return nil, fmt.Errorf("%w: opening index reader: %v", errors.ErrTransport, err)
	}
	defer reader.Close()

	match := bluge.NewMatchQuery(query).SetField("message")
	request := bluge.NewTopNSearch(limit, match)
	iterator, err := reader.Search(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("%w: search %q: %v", errors.ErrTransport, query, err)
	}

	var hits []Entry
	for {
		next, err := iterator.Next()
		if err != nil {
			return nil, fmt.Errorf("%w: search %q: %v", errors.ErrTransport, query, err)
		}
		if next == nil {
			return hits, nil
		}
		var hit Entry
		err = next.VisitStoredFields(func(field string, value []byte) bool {
			switch field {
			case "scope":
				hit.Scope = string(value)
			case "stream":
				hit.Stream = string(value)
			case "sender":
				hit.Sender = string(value)
			case "message":
				hit.Text = string(value)
			case "seq":
				if seq, err := bluge.DecodeNumericFloat64(value); err == nil {
					hit.Seq = uint64(seq)
				}
			}
			return true
		})
		if err != nil {
			i.log.Warn("Skipping unreadable search hit", "error", err)
			continue
		}
		hits = append(hits, hit)
	}
}

func (i *Index) Close() error {
	return i.writer.Close()
}

func docID(entry Entry) string {
	return strings.Join([]string{entry.Scope, entry.Stream, strconv.FormatUint(entry.Seq, 10)}, "/")
}
