package store

import (
	"errors"
	"fmt"
)

// ErrNotConnected is returned by every data operation invoked before Connect
// or after Disconnect.
var ErrNotConnected = errors.New("database not connected")

// BackendError wraps a failure of the underlying database: network, I/O or a
// row that cannot be decoded. It is never retried by the store.
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

func backendErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &BackendError{Op: op, Err: err}
}
