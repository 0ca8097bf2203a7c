// logctl inspects a log daemon's BadgerDB without stopping it: scopes,
// streams, reader group cursors and recent events, rendered as tables.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/database"
	"github.com/mama165/sdk-go/logs"
	"github.com/olekukonko/tablewriter"

	"streamchat/streamlog"
	"streamchat/streamlog/badgerlog"
	"streamchat/wire"
)

func main() {
	dbPath := flag.String("db", database.DefaultPath, "Path to badger DB")
	scope := flag.String("scope", "chat", "Scope to inspect")
	stream := flag.String("stream", "lobby", "Stream to inspect")
	limit := flag.Int("limit", 20, "Number of recent events for tail")
	flag.Parse()

	command := flag.Arg(0)
	if command == "" {
		command = "tail"
	}

	db, err := openDB(*dbPath)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	store := badgerlog.NewStore(db, logs.GetLoggerFromLevel(slog.LevelWarn), badgerlog.Options{})

	switch command {
	case "scopes":
		err = printScopes(store)
	case "streams":
		err = printStreams(store, *scope)
	case "groups":
		err = printGroups(store, *scope, *stream)
	case "tail":
		err = printTail(store, *scope, *stream, *limit)
	default:
		log.Fatalf("Unknown command %q (want scopes, streams, groups or tail)", command)
	}
	if err != nil {
		log.Fatal(err)
	}
}

// openDB opens in read-only mode. BypassLockGuard allows opening while
// the daemon holds the lock.
func openDB(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLoggingLevel(badger.WARNING)
	return badger.Open(opts)
}

func newTable(headers []string) *tablewriter.Table {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader(headers)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	return table
}

func printScopes(store *badgerlog.Store) error {
	scopes, err := store.ListScopes()
	if err != nil {
		return err
	}
	table := newTable([]string{"Scope"})
	for _, scope := range scopes {
		table.Append([]string{scope})
	}
	table.Render()
	return nil
}

func printStreams(store *badgerlog.Store, scope string) error {
	streams, err := store.ListStreams(scope)
	if err != nil {
		return err
	}
	table := newTable([]string{"Scope", "Stream"})
	for _, stream := range streams {
		table.Append([]string{scope, stream})
	}
	table.Render()
	return nil
}

func printGroups(store *badgerlog.Store, scope, stream string) error {
	groups, err := store.Groups(scope, stream)
	if err != nil {
		return err
	}
	table := newTable([]string{"Group", "Next Position"})
	for _, group := range groups {
		table.Append([]string{group.Group, strconv.FormatUint(group.Next, 10)})
	}
	table.Render()
	return nil
}

func printTail(store *badgerlog.Store, scope, stream string, limit int) error {
	events, err := store.Tail(scope, stream, limit)
	if err != nil {
		return err
	}
	table := newTable([]string{"Seq", "Type", "Sender", "Detail"})
	for _, event := range events {
		table.Append(eventRow(event))
	}
	table.Render()
	return nil
}

// eventRow decodes the payload when it is a valid chat message and
// falls back to a raw size row otherwise, instead of stopping the
// whole listing on one odd payload.
func eventRow(event streamlog.Event) []string {
	seq := strconv.FormatUint(event.Seq, 10)
	msg, err := wire.Decode(event.Payload)
	if err != nil {
		return []string{seq, "RAW", "-", fmt.Sprintf("Size: %d bytes", len(event.Payload))}
	}
	return []string{seq, "CHAT", msg.Sender, msg.Text}
}
