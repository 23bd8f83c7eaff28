package pipeline

import (
	"errors"

	"github.com/rotisserie/eris"
)

// ErrMissingUpstreamData signals that a stage received no input from the
// previous stage's hand-off: either nothing was pushed or the pushed
// sequence was empty. It aborts the run; it points at broken pipeline
// wiring or an upstream stage that produced nothing.
var ErrMissingUpstreamData = eris.New("missing upstream data")

// FetchError wraps a transport failure, non-success status, or malformed
// payload from a catalog or detail call. Fatal from the fetch stage;
// recovered and logged per item inside enrichment.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string {
	return "fetch: " + e.Err.Error()
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsFetchError reports whether any error in the chain is a FetchError.
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}

// PersistError wraps a serialization or filesystem failure while writing
// output, including an already-existing destination. Fatal.
type PersistError struct {
	Err error
}

func (e *PersistError) Error() string {
	return "persist: " + e.Err.Error()
}

func (e *PersistError) Unwrap() error {
	return e.Err
}

// IsPersistError reports whether any error in the chain is a PersistError.
func IsPersistError(err error) bool {
	var pe *PersistError
	return errors.As(err, &pe)
}
