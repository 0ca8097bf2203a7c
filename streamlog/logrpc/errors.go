package logrpc

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/sourcegraph/jsonrpc2"

	"streamchat/errors"
)

// Error codes in the implementation defined JSON-RPC range.
const (
	CodeNotFound     = -32001
	CodeInvalidState = -32002
	CodeStorage      = -32003
)

// sentinels the two sides agree on. ToRPCError serializes the full
// error text, so FromRPCError can recover the exact sentinel instead
// of collapsing every not-found into one.
var sentinels = []error{
	errors.ErrScopeNotFound,
	errors.ErrStreamNotFound,
	errors.ErrGroupNotFound,
	errors.ErrInvalidState,
	errors.ErrTransport,
}

// ToRPCError files a store failure under its wire code.
func ToRPCError(err error) *jsonrpc2.Error {
	code := int64(CodeStorage)
	switch {
	case stderrors.Is(err, errors.ErrInvalidState):
		code = CodeInvalidState
	case stderrors.Is(err, errors.ErrScopeNotFound),
		stderrors.Is(err, errors.ErrStreamNotFound),
		stderrors.Is(err, errors.ErrGroupNotFound):
		code = CodeNotFound
	}
	return &jsonrpc2.Error{Code: code, Message: err.Error()}
}

// FromRPCError maps a wire error back onto the taxonomy so callers can
// keep classifying with errors.Is on either side of the socket.
func FromRPCError(rpcErr *jsonrpc2.Error) error {
	for _, sentinel := range sentinels {
		if strings.Contains(rpcErr.Message, sentinel.Error()) {
			return fmt.Errorf("%w%s", sentinel, strings.TrimPrefix(rpcErr.Message, sentinel.Error()))
		}
	}
	switch rpcErr.Code {
	case CodeInvalidState:
		return fmt.Errorf("%w: %s", errors.ErrInvalidState, rpcErr.Message)
	default:
		return fmt.Errorf("%w: %s", errors.ErrTransport, rpcErr.Message)
	}
}
