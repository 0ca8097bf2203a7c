package session

import (
	"bufio"
	"context"
	"io"

	"streamchat/streamlog"
)

// Coordinates name the log locations a session binds to.
type Coordinates struct {
	Scope  string
	Stream string
}

// Attach provisions the scope, the stream and the participant's reader
// group, then opens both endpoints. Provisioning runs on every start
// and is harmless when everything already exists. The group is named
// after the identity so each participant keeps independent read
// progress.
func Attach(ctx context.Context, manager streamlog.Manager, coords Coordinates, identity string) (streamlog.Reader, streamlog.Writer, error) {
	if _, err := manager.CreateScope(ctx, coords.Scope); err != nil {
		return nil, nil, err
	}
	if _, err := manager.CreateStream(ctx, coords.Scope, coords.Stream); err != nil {
		return nil, nil, err
	}
	if _, err := manager.CreateReaderGroup(ctx, coords.Scope, coords.Stream, identity); err != nil {
		return nil, nil, err
	}
	reader, err := manager.OpenReader(ctx, coords.Scope, coords.Stream, identity, identity)
	if err != nil {
		return nil, nil, err
	}
	writer, err := manager.OpenWriter(ctx, coords.Scope, coords.Stream)
	if err != nil {
		_ = reader.Close(ctx)
		return nil, nil, err
	}
	return reader, writer, nil
}

// Lines feeds user input to the outbound loop line by line. The
// feeding goroutine draws the prompt before every read, stops at end
// of input and closes the channel.
func Lines(r io.Reader, prompt func()) <-chan string {
	ch := make(chan string)
	go func() {
		defer close(ch)
		scanner := bufio.NewScanner(r)
		for {
			if prompt != nil {
				prompt()
			}
			if !scanner.Scan() {
				return
			}
			ch <- scanner.Text()
		}
	}()
	return ch
}
