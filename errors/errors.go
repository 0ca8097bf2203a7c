package errors

import "fmt"

var (
	// ErrMalformedMessage marks payloads that do not decode into a valid
	// wire message. Batches carrying them are acknowledged and dropped.
	ErrMalformedMessage = fmt.Errorf("malformed message")

	// ErrTransport marks failures of the underlying log transport.
	// The session never retries on its own.
	ErrTransport = fmt.Errorf("log transport failure")

	// ErrCommandFailed marks a command handler whose dependency failed.
	// Surfaced as replacement reply text, never fatal.
	ErrCommandFailed = fmt.Errorf("command handler failed")

	// ErrInvalidState marks adapter misuse such as acknowledging the
	// same batch twice. Logged and ignored.
	ErrInvalidState = fmt.Errorf("invalid state")

	ErrWorkerPanic       = fmt.Errorf("worker panic")
	ErrScopeNotFound     = fmt.Errorf("scope not found")
	ErrStreamNotFound    = fmt.Errorf("stream not found")
	ErrGroupNotFound     = fmt.Errorf("reader group not found")
	ErrOnlyCensoredFiles = fmt.Errorf("censored directory contains directories")
	ErrEmptyWords        = fmt.Errorf("no words have been found")
)
