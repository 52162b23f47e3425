package workflow

import "errors"

// Business-rule violations surfaced to the HTTP layer. All are recoverable
// by the caller; none commit partial state.
var (
	ErrAlreadyInitialized = errors.New("workflow already initialized")
	ErrNotInitialized     = errors.New("workflow not initialized")
	ErrStepNotFound       = errors.New("workflow step not found")
	ErrOutOfSequence      = errors.New("step is not the currently active step")
	ErrAlreadyCompleted   = errors.New("step already completed")
	ErrInvalidStepNumber  = errors.New("invalid step number")
	ErrStepNotActive      = errors.New("step is not in progress")
)
