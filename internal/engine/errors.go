package engine

import (
	"errors"
	"fmt"
)

// ErrJobIncomplete is the engine's single fatal error class: the upstream job
// never reached "completed", so no ledger can be assembled. Everything below
// job level degrades silently instead (see fieldtrace).
var ErrJobIncomplete = errors.New("job incomplete")

const (
	ErrorCodeJobIncomplete = "JOB_INCOMPLETE"
	ErrorCodeValidation    = "VALIDATION_ERROR"
	ErrorCodeInternal      = "INTERNAL_ERROR"
)

// JobIncompleteError carries the job's reported status and, when the
// orchestrator attached one, the stage failure detail.
type JobIncompleteError struct {
	JobID   string
	Status  string
	Stage   string
	Message string
}

func (e *JobIncompleteError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("job %s is %q, not completed: %s", e.JobID, e.Status, e.Message)
	}
	return fmt.Sprintf("job %s is %q, not completed", e.JobID, e.Status)
}

func (e *JobIncompleteError) Unwrap() error { return ErrJobIncomplete }
