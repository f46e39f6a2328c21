package data

import (
	"errors"
	"fmt"
	"sync"
)

// Standard errors surfaced by folders, files, streams and hosts.
// Callers match them with errors.Is, since most are returned wrapped with context.
var (
	// Item errors
	ErrNotExist   = errors.New("hostfs: item does not exist")
	ErrWrongKind  = errors.New("hostfs: item is of the wrong kind")
	ErrExist      = errors.New("hostfs: item already exists")
	ErrPermission = errors.New("hostfs: operation failed")

	// Usage errors
	ErrNotSupported = errors.New("hostfs: operation not supported")
	ErrInvalid      = errors.New("hostfs: invalid argument")
	ErrCrossSession = fmt.Errorf("%w: items belong to different host sessions", ErrNotSupported)

	// Backend errors
	ErrNotDirectory = errors.New("hostfs: not a directory")
	ErrIsDirectory  = errors.New("hostfs: is a directory")
	ErrMountFailed  = errors.New("hostfs: backend initialization failed")

	// I/O errors
	ErrIO     = errors.New("hostfs: i/o failure")
	ErrClosed = errors.New("hostfs: stream already closed")
)

// Errors collects multiple errors, e.g. when closing several backends at once.
type Errors struct {
	mu     sync.RWMutex
	errors []error
}

func (e *Errors) Add(err error) {
	if err == nil {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.errors = append(e.errors, err)
}

func (e *Errors) Errors() error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if len(e.errors) == 0 {
		return nil
	}

	return errors.Join(e.errors...)
}
