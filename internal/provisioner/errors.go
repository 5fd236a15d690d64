package provisioner

import (
	"errors"
	"fmt"
)

// ErrDefinitionMissing means an index's definition file is absent or
// unreadable. This is a configuration error, not a transient one: it is never
// retried and aborts the whole bootstrap sequence.
var ErrDefinitionMissing = errors.New("index definition missing")

// ExhaustedError means the creation attempt budget was spent without the
// search engine accepting or acknowledging the index.
type ExhaustedError struct {
	// Index is the name of the index that could not be created.
	Index string
	// Attempts is the number of PUTs issued.
	Attempts int
	// LastStatus is the HTTP status of the final attempt, or
	// StatusNetworkFailure if the request never produced a response.
	LastStatus int
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("index %s: creation exhausted after %d attempts (last status %d)",
		e.Index, e.Attempts, e.LastStatus)
}
