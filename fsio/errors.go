package fsio

import (
	"errors"
	"io/fs"
)

// ErrFileClosed is the cause reported when an operation is attempted on a
// handle that has already been closed.
var ErrFileClosed = errors.New("fsio: file is closed")

// HostError is a failed host operation, surfaced to the issuing computation.
// Host failures are never retried and never swallowed.
type HostError struct {
	Op   string
	Path string
	Err  error
}

// Error returns the host error translation. Path errors from the os layer
// already carry the operation and path; they are reported verbatim.
func (e *HostError) Error() string {
	var pathErr *fs.PathError
	if errors.As(e.Err, &pathErr) {
		return pathErr.Error()
	}
	if e.Path != "" {
		return e.Op + " " + e.Path + ": " + e.Err.Error()
	}
	return e.Op + ": " + e.Err.Error()
}

// Unwrap returns the underlying cause, enabling errors.Is matching against
// sentinels like fs.ErrNotExist.
func (e *HostError) Unwrap() error {
	return e.Err
}

func hostError(op, path string, err error) *HostError {
	return &HostError{Op: op, Path: path, Err: err}
}

func closedError(op string) *HostError {
	return &HostError{Op: op, Err: ErrFileClosed}
}
