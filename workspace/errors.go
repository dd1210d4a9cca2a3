package workspace

import (
	"errors"
	"fmt"

	"github.com/doomfront/doomfront/token"
)

var (
	// ErrUnknownFile is returned when an operation names a file that is not
	// in the index.
	ErrUnknownFile = errors.New("unknown file")

	// ErrClosed is returned by operations on a closed index.
	ErrClosed = errors.New("workspace is closed")
)

// UsageError reports a contract violation by the caller, such as querying a
// file that was never opened. It wraps one of the sentinel errors above.
type UsageError struct {
	Op   string
	File token.FileID
	Err  error
}

func (e *UsageError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("workspace %s: %s", e.Op, e.Err)
	}
	return fmt.Sprintf("workspace %s %s: %s", e.Op, e.File, e.Err)
}

// Unwrap returns the sentinel error.
func (e *UsageError) Unwrap() error {
	return e.Err
}

func usage(op string, file token.FileID, err error) error {
	return &UsageError{Op: op, File: file, Err: err}
}
