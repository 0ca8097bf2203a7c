package session

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"

	"streamchat/commands"
	"streamchat/mocks"
	"streamchat/streamlog"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// pollingReader scripts an idle reader: every poll waits out a short
// window and delivers nothing, until the session context ends.
func pollingReader(ctrl *gomock.Controller) *mocks.MockReader {
	reader := mocks.NewMockReader(ctrl)
	reader.EXPECT().ReadNext(gomock.Any()).DoAndReturn(
		func(ctx context.Context) ([]streamlog.Event, error) {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(10 * time.Millisecond):
				return nil, nil
			}
		}).AnyTimes()
	reader.EXPECT().Ack(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	reader.EXPECT().Close(gomock.Any()).Return(nil).Times(1)
	return reader
}

func newTestSession(ctrl *gomock.Controller, input <-chan string) *ChatSession {
	log := logs.GetLoggerFromLevel(slog.LevelError)
	reader := pollingReader(ctrl)
	writer := mocks.NewMockWriter(ctrl)
	writer.EXPECT().Close(gomock.Any()).Return(nil).Times(1)
	sink := mocks.NewMockDisplaySink(ctrl)
	registry := commands.NewRegistry(log).Register("greet", commands.Greet())
	cfg := Config{Identity: "alex", RestartInterval: 50 * time.Millisecond}
	return New(log, cfg, reader, writer, registry, sink, input)
}

func TestChatSession_StopJoinsBothLoops(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	input := make(chan string)
	defer close(input)
	sess := newTestSession(ctrl, input)

	errCh := make(chan error, 1)
	go func() { errCh <- sess.Run(context.Background()) }()

	time.Sleep(30 * time.Millisecond)
	// Stop is idempotent, a second call must not panic or block
	sess.Stop()
	sess.Stop()

	select {
	case err := <-errCh:
		req.NoError(err)
	case <-time.After(2 * time.Second):
		req.Fail("Session did not shut down after Stop")
	}
}

func TestChatSession_ClosedInputEndsSession(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	input := make(chan string)
	sess := newTestSession(ctrl, input)

	errCh := make(chan error, 1)
	go func() { errCh <- sess.Run(context.Background()) }()

	time.Sleep(30 * time.Millisecond)
	// When the user's input reaches end of file
	close(input)

	select {
	case err := <-errCh:
		req.NoError(err)
	case <-time.After(2 * time.Second):
		req.Fail("Session did not follow the closed input down")
	}
}

func TestChatSession_StopBeforeRunIsSafe(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	input := make(chan string)
	defer close(input)
	sess := newTestSession(ctrl, input)

	// Stop before Run ever starts
	sess.Stop()

	errCh := make(chan error, 1)
	go func() { errCh <- sess.Run(context.Background()) }()

	select {
	case err := <-errCh:
		req.NoError(err)
	case <-time.After(2 * time.Second):
		req.Fail("Session started despite an early Stop")
	}
}

func TestChatSession_ParentContextCancelEndsSession(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	input := make(chan string)
	defer close(input)
	sess := newTestSession(ctrl, input)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- sess.Run(ctx) }()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		req.NoError(err)
	case <-time.After(2 * time.Second):
		req.Fail("Session ignored parent cancellation")
	}
}
