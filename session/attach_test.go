package session

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"streamchat/errors"
	"streamchat/mocks"
)

func TestAttach_ProvisionsAndOpensBothEndpoints(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	manager := mocks.NewMockManager(ctrl)
	reader := mocks.NewMockReader(ctrl)
	writer := mocks.NewMockWriter(ctrl)

	coords := Coordinates{Scope: "scope", Stream: "stream"}
	// Provisioning runs on every start, created or not
	manager.EXPECT().CreateScope(gomock.Any(), "scope").Return(false, nil).Times(1)
	manager.EXPECT().CreateStream(gomock.Any(), "scope", "stream").Return(false, nil).Times(1)
	manager.EXPECT().CreateReaderGroup(gomock.Any(), "scope", "stream", "alex").Return(true, nil).Times(1)
	manager.EXPECT().OpenReader(gomock.Any(), "scope", "stream", "alex", "alex").Return(reader, nil).Times(1)
	manager.EXPECT().OpenWriter(gomock.Any(), "scope", "stream").Return(writer, nil).Times(1)

	gotReader, gotWriter, err := Attach(context.Background(), manager, coords, "alex")
	req.NoError(err)
	req.Same(reader, gotReader)
	req.Same(writer, gotWriter)
}

func TestAttach_StopsAtFirstProvisioningFailure(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	manager := mocks.NewMockManager(ctrl)
	boom := fmt.Errorf("%w: store is gone", errors.ErrTransport)
	manager.EXPECT().CreateScope(gomock.Any(), "scope").Return(false, boom).Times(1)

	_, _, err := Attach(context.Background(), manager, Coordinates{Scope: "scope", Stream: "stream"}, "alex")
	req.ErrorIs(err, errors.ErrTransport)
}

func TestAttach_ClosesReaderWhenWriterFails(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	manager := mocks.NewMockManager(ctrl)
	reader := mocks.NewMockReader(ctrl)

	manager.EXPECT().CreateScope(gomock.Any(), gomock.Any()).Return(false, nil).Times(1)
	manager.EXPECT().CreateStream(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil).Times(1)
	manager.EXPECT().CreateReaderGroup(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil).Times(1)
	manager.EXPECT().OpenReader(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(reader, nil).Times(1)
	manager.EXPECT().OpenWriter(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, fmt.Errorf("%w: stream sealed", errors.ErrTransport)).Times(1)
	// The half-open reader must not keep its group slot
	reader.EXPECT().Close(gomock.Any()).Return(nil).Times(1)

	_, _, err := Attach(context.Background(), manager, Coordinates{Scope: "scope", Stream: "stream"}, "alex")
	req.ErrorIs(err, errors.ErrTransport)
}

func TestLines_FeedsAndClosesOnEOF(t *testing.T) {
	req := require.New(t)

	var prompts atomic.Int32
	input := Lines(strings.NewReader("one\ntwo\n"), func() { prompts.Add(1) })

	var got []string
	for line := range input {
		got = append(got, line)
	}

	req.Equal([]string{"one", "two"}, got)
	// One prompt per read, the last one answered by end of input
	req.Equal(int32(3), prompts.Load())
}

func TestLines_NilPromptIsAllowed(t *testing.T) {
	req := require.New(t)

	input := Lines(strings.NewReader("solo\n"), nil)

	select {
	case line := <-input:
		req.Equal("solo", line)
	case <-time.After(time.Second):
		req.Fail("Line never arrived")
	}
	_, open := <-input
	req.False(open)
}
