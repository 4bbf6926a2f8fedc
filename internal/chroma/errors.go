package chroma

import (
	"errors"
	"fmt"
)

// Sentinel errors, matched with errors.Is against the typed errors below
var (
	ErrConnection = errors.New("connection failed")
	ErrNotFound   = errors.New("collection not found")
	ErrRemote     = errors.New("remote error")
	ErrValidation = errors.New("invalid input")
)

// ConnectionError means the server could not be reached or rejected the handshake
type ConnectionError struct {
	Address string
	Err     error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("cannot connect to %s: %v", e.Address, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// Is matches ErrConnection
func (e *ConnectionError) Is(target error) bool { return target == ErrConnection }

// NotFoundError means the named collection does not exist on the server
type NotFoundError struct {
	Collection string
	Message    string // server message, if any
}

func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("collection %q not found: %s", e.Collection, e.Message)
	}
	return fmt.Sprintf("collection %q not found", e.Collection)
}

// Is matches ErrNotFound
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// RemoteError is any other transport or server fault
type RemoteError struct {
	Op         string
	StatusCode int    // 0 when no response was received
	Message    string // server message, if any
	Err        error
}

func (e *RemoteError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Message != "":
		return fmt.Sprintf("%s: server returned %d: %s", e.Op, e.StatusCode, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: server returned %d", e.Op, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
}

func (e *RemoteError) Unwrap() error { return e.Err }

// Is matches ErrRemote
func (e *RemoteError) Is(target error) bool { return target == ErrRemote }

// ValidationError means user input (host, port, names) was rejected before any call
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// Is matches ErrValidation
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
