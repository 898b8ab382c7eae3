package assistant

import (
	"errors"
	"fmt"
)

// ErrRunTimedOut marks a turn abandoned because the run did not reach a
// terminal status within the configured deadline.
var ErrRunTimedOut = errors.New("assistant run timed out")

// RunFailedError reports a run that ended in a non-completed terminal
// status. No partial reply is synthesized for these turns.
type RunFailedError struct {
	Status string
}

func (e *RunFailedError) Error() string {
	return fmt.Sprintf("assistant run ended with status %q", e.Status)
}
