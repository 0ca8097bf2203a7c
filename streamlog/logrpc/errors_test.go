package logrpc

import (
	"fmt"
	"testing"

	"github.com/sourcegraph/jsonrpc2"
	"github.com/stretchr/testify/require"

	"streamchat/errors"
)

func Test_ErrorMapping_RoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     int64
		sentinel error
	}{
		{
			name:     "scope not found",
			err:      fmt.Errorf("%w: chat", errors.ErrScopeNotFound),
			code:     CodeNotFound,
			sentinel: errors.ErrScopeNotFound,
		},
		{
			name:     "stream not found",
			err:      fmt.Errorf("%w: chat/lobby", errors.ErrStreamNotFound),
			code:     CodeNotFound,
			sentinel: errors.ErrStreamNotFound,
		},
		{
			name:     "group not found",
			err:      fmt.Errorf("%w: chat/lobby/alex", errors.ErrGroupNotFound),
			code:     CodeNotFound,
			sentinel: errors.ErrGroupNotFound,
		},
		{
			name:     "invalid state",
			err:      fmt.Errorf("%w: position 4 already acknowledged", errors.ErrInvalidState),
			code:     CodeInvalidState,
			sentinel: errors.ErrInvalidState,
		},
		{
			name:     "storage failure",
			err:      fmt.Errorf("%w: disk full", errors.ErrTransport),
			code:     CodeStorage,
			sentinel: errors.ErrTransport,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			rpcErr := ToRPCError(tt.err)
			req.Equal(tt.code, rpcErr.Code)

			back := FromRPCError(rpcErr)
			req.ErrorIs(back, tt.sentinel)
		})
	}
}

func Test_FromRPCError_UnknownMessageFallsBackOnCode(t *testing.T) {
	req := require.New(t)

	back := FromRPCError(&jsonrpc2.Error{Code: CodeInvalidState, Message: "something opaque"})
	req.ErrorIs(back, errors.ErrInvalidState)

	back = FromRPCError(&jsonrpc2.Error{Code: CodeStorage, Message: "something opaque"})
	req.ErrorIs(back, errors.ErrTransport)
}
