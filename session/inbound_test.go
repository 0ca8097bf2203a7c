package session

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"streamchat/commands"
	"streamchat/domain"
	"streamchat/errors"
	"streamchat/mocks"
	"streamchat/streamlog"
	"streamchat/wire"
)

func encoded(t *testing.T, sender, text string) []byte {
	t.Helper()
	data, err := wire.Encode(domain.NewMessage(sender, text))
	require.NoError(t, err)
	return data
}

// blockUntilCanceled parks every poll after the scripted ones until the
// session context ends the loop.
func blockUntilCanceled(reader *mocks.MockReader) {
	reader.EXPECT().ReadNext(gomock.Any()).DoAndReturn(
		func(ctx context.Context) ([]streamlog.Event, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		}).AnyTimes()
}

func TestInboundProcessor_DispatchesAndDisplays(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	log := logs.GetLoggerFromLevel(slog.LevelError)

	reader := mocks.NewMockReader(ctrl)
	sink := mocks.NewMockDisplaySink(ctrl)
	registry := commands.NewRegistry(log).Register("greet", commands.Greet())

	displayed := make(chan struct{})
	// Given tim sent the greet keyword
	reader.EXPECT().ReadNext(gomock.Any()).Return([]streamlog.Event{
		{Seq: 1, Payload: encoded(t, "tim", "greet")},
	}, nil).Times(1)
	blockUntilCanceled(reader)
	reader.EXPECT().Ack(gomock.Any(), uint64(1)).Return(nil).Times(1)
	reader.EXPECT().Close(gomock.Any()).Return(nil).Times(1)
	// Then alex sees the computed salute attributed to tim
	sink.EXPECT().Display(gomock.Any(), domain.NewMessage("tim", "tim says hi!")).DoAndReturn(
		func(context.Context, domain.Message) error {
			close(displayed)
			return nil
		}).Times(1)

	proc := NewInboundProcessor(log, NewLogReader(reader, log), registry, sink, "alex")
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- proc.Run(ctx) }()

	select {
	case <-displayed:
	case <-time.After(time.Second):
		req.Fail("Reply never reached the display")
	}
	cancel()
	req.ErrorIs(<-errCh, context.Canceled)
}

func TestInboundProcessor_SuppressesOwnEcho(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	log := logs.GetLoggerFromLevel(slog.LevelError)

	reader := mocks.NewMockReader(ctrl)
	sink := mocks.NewMockDisplaySink(ctrl)
	registry := commands.NewRegistry(log)

	displayed := make(chan struct{})
	// Given one batch carrying alex's own echo and a line from tim
	reader.EXPECT().ReadNext(gomock.Any()).Return([]streamlog.Event{
		{Seq: 1, Payload: encoded(t, "alex", "hello tim")},
		{Seq: 2, Payload: encoded(t, "tim", "shall we play a game?")},
	}, nil).Times(1)
	blockUntilCanceled(reader)
	reader.EXPECT().Ack(gomock.Any(), uint64(2)).Return(nil).Times(1)
	reader.EXPECT().Close(gomock.Any()).Return(nil).Times(1)
	// Then only tim's line is displayed
	sink.EXPECT().Display(gomock.Any(), domain.NewMessage("tim", "shall we play a game?")).DoAndReturn(
		func(context.Context, domain.Message) error {
			close(displayed)
			return nil
		}).Times(1)

	proc := NewInboundProcessor(log, NewLogReader(reader, log), registry, sink, "alex")
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- proc.Run(ctx) }()

	select {
	case <-displayed:
	case <-time.After(time.Second):
		req.Fail("Peer line never reached the display")
	}
	cancel()
	req.ErrorIs(<-errCh, context.Canceled)
}

func TestInboundProcessor_AcknowledgesPoisonBatches(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	log := logs.GetLoggerFromLevel(slog.LevelError)

	reader := mocks.NewMockReader(ctrl)
	sink := mocks.NewMockDisplaySink(ctrl)
	registry := commands.NewRegistry(log)

	acked := make(chan struct{})
	// Given a batch no decoder can make sense of
	reader.EXPECT().ReadNext(gomock.Any()).Return([]streamlog.Event{
		{Seq: 9, Payload: []byte("definitely not json")},
	}, nil).Times(1)
	blockUntilCanceled(reader)
	// Then it is acknowledged anyway so it is never redelivered,
	// and nothing reaches the display
	reader.EXPECT().Ack(gomock.Any(), uint64(9)).DoAndReturn(
		func(context.Context, uint64) error {
			close(acked)
			return nil
		}).Times(1)
	reader.EXPECT().Close(gomock.Any()).Return(nil).Times(1)

	proc := NewInboundProcessor(log, NewLogReader(reader, log), registry, sink, "alex")
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- proc.Run(ctx) }()

	select {
	case <-acked:
	case <-time.After(time.Second):
		req.Fail("Poison batch was never acknowledged")
	}
	cancel()
	req.ErrorIs(<-errCh, context.Canceled)
}

func TestInboundProcessor_DeliversBatchWhenAckFails(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	log := logs.GetLoggerFromLevel(slog.LevelError)

	reader := mocks.NewMockReader(ctrl)
	sink := mocks.NewMockDisplaySink(ctrl)
	registry := commands.NewRegistry(log)

	displayed := make(chan struct{})
	// Given the commit is refused after the batch was extracted
	reader.EXPECT().ReadNext(gomock.Any()).Return([]streamlog.Event{
		{Seq: 6, Payload: encoded(t, "tim", "did you get this?")},
	}, nil).Times(1)
	blockUntilCanceled(reader)
	reader.EXPECT().Ack(gomock.Any(), uint64(6)).Return(fmt.Errorf("%w: commit refused", errors.ErrTransport)).Times(1)
	reader.EXPECT().Close(gomock.Any()).Return(nil).Times(1)
	// Then the extracted messages still reach the display
	sink.EXPECT().Display(gomock.Any(), domain.NewMessage("tim", "did you get this?")).DoAndReturn(
		func(context.Context, domain.Message) error {
			close(displayed)
			return nil
		}).Times(1)

	proc := NewInboundProcessor(log, NewLogReader(reader, log), registry, sink, "alex")
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- proc.Run(ctx) }()

	select {
	case <-displayed:
	case <-time.After(time.Second):
		req.Fail("Batch was dropped after the failed acknowledge")
	}
	cancel()
	req.ErrorIs(<-errCh, context.Canceled)
}

func TestInboundProcessor_SurvivesPollFailure(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	log := logs.GetLoggerFromLevel(slog.LevelError)

	reader := mocks.NewMockReader(ctrl)
	sink := mocks.NewMockDisplaySink(ctrl)
	registry := commands.NewRegistry(log)

	displayed := make(chan struct{})
	// Given the first poll blows up and the second delivers
	reader.EXPECT().ReadNext(gomock.Any()).Return(nil, fmt.Errorf("%w: connection reset", errors.ErrTransport)).Times(1)
	reader.EXPECT().ReadNext(gomock.Any()).Return([]streamlog.Event{
		{Seq: 3, Payload: encoded(t, "tim", "still there?")},
	}, nil).Times(1)
	blockUntilCanceled(reader)
	reader.EXPECT().Ack(gomock.Any(), uint64(3)).Return(nil).Times(1)
	reader.EXPECT().Close(gomock.Any()).Return(nil).Times(1)
	// Then the loop keeps going and delivers the later line
	sink.EXPECT().Display(gomock.Any(), domain.NewMessage("tim", "still there?")).DoAndReturn(
		func(context.Context, domain.Message) error {
			close(displayed)
			return nil
		}).Times(1)

	proc := NewInboundProcessor(log, NewLogReader(reader, log), registry, sink, "alex")
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- proc.Run(ctx) }()

	select {
	case <-displayed:
	case <-time.After(2 * time.Second):
		req.Fail("Loop did not recover from the failed poll")
	}
	cancel()
	req.ErrorIs(<-errCh, context.Canceled)
}

func TestInboundProcessor_DisplayFailureDoesNotStopTheLoop(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	log := logs.GetLoggerFromLevel(slog.LevelError)

	reader := mocks.NewMockReader(ctrl)
	sink := mocks.NewMockDisplaySink(ctrl)
	registry := commands.NewRegistry(log)

	second := make(chan struct{})
	reader.EXPECT().ReadNext(gomock.Any()).Return([]streamlog.Event{
		{Seq: 1, Payload: encoded(t, "tim", "first")},
		{Seq: 2, Payload: encoded(t, "tim", "second")},
	}, nil).Times(1)
	blockUntilCanceled(reader)
	reader.EXPECT().Ack(gomock.Any(), uint64(2)).Return(nil).Times(1)
	reader.EXPECT().Close(gomock.Any()).Return(nil).Times(1)
	// Given the display chokes on the first line
	sink.EXPECT().Display(gomock.Any(), domain.NewMessage("tim", "first")).Return(fmt.Errorf("tty gone")).Times(1)
	// Then the second one still arrives
	sink.EXPECT().Display(gomock.Any(), domain.NewMessage("tim", "second")).DoAndReturn(
		func(context.Context, domain.Message) error {
			close(second)
			return nil
		}).Times(1)

	proc := NewInboundProcessor(log, NewLogReader(reader, log), registry, sink, "alex")
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- proc.Run(ctx) }()

	select {
	case <-second:
	case <-time.After(time.Second):
		req.Fail("Loop stopped after the display failure")
	}
	cancel()
	req.ErrorIs(<-errCh, context.Canceled)
}
