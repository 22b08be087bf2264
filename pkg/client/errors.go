package client

import (
	"fmt"
)

// TrackerUnavailableError is returned whenever GitHub did not answer an
// operation successfully. StatusCode is 0 if no HTTP response was received
// or the status is not known (GraphQL transport errors).
type TrackerUnavailableError struct {
	Operation  string
	StatusCode int
	Response   string
	Err        error
}

func (e *TrackerUnavailableError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("unable to %s: unexpected status %d", e.Operation, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("unable to %s: %v", e.Operation, e.Err)
	default:
		return fmt.Sprintf("unable to %s", e.Operation)
	}
}

func (e *TrackerUnavailableError) Unwrap() error {
	return e.Err
}
