package internal

import (
	"errors"
	"fmt"
)

// ErrTurnInFlight is returned when a query is submitted while another turn
// is still streaming for the same controller.
var ErrTurnInFlight = errors.New("a turn is already in flight for this session")

// StorageError represents errors accessing the session database
type StorageError struct {
	Op  string // "open", "save", "load", "delete", "list"
	Key string // session id or state key, may be empty
	Err error
}

func (e *StorageError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("storage error: %s %s: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("storage error: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// StreamError represents a transport-level failure opening or reading an
// event stream
type StreamError struct {
	URL    string
	Status int // HTTP status, 0 when the request never completed
	Err    error
}

func (e *StreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("stream error: %s returned status %d: %v", e.URL, e.Status, e.Err)
	}
	return fmt.Sprintf("stream error: %s: %v", e.URL, e.Err)
}

func (e *StreamError) Unwrap() error {
	return e.Err
}

// StorageWarning signals that a completed turn could not be persisted.
// The turn's result is still held in memory and remains visible.
type StorageWarning struct {
	Err error
}

func (e *StorageWarning) Error() string {
	return fmt.Sprintf("session not persisted: %v", e.Err)
}

func (e *StorageWarning) Unwrap() error {
	return e.Err
}
