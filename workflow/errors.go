package workflow

import (
	"errors"
	"fmt"

	"github.com/civictech-tw/casework/models"
)

// ErrNotAuthorized means the acting principal may not modify the case. It is
// reported separately from guard failures so callers can render the right
// prompt.
var ErrNotAuthorized = errors.New("principal is not allowed to modify this case")

// ErrStorageConflict means a concurrent mutation won the version check. The
// caller should reload the case and retry from guard evaluation.
var ErrStorageConflict = errors.New("case was modified concurrently")

// GuardError reports an unmet transition precondition. Recoverable: the
// caller can satisfy the guard and retry. Reason is suitable for UI hints.
type GuardError struct {
	Op     Operation
	Reason string
}

func (e *GuardError) Error() string {
	return fmt.Sprintf("cannot %s case: %s", e.Op, e.Reason)
}

// InvalidTransitionError means the case was not in a source state of the
// attempted operation. Unlike a guard failure this indicates a race or a
// programming error and should be surfaced loudly.
type InvalidTransitionError struct {
	Op   Operation
	From models.CaseState
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s a case in state %q", e.Op, e.From)
}
