package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrImbalancedEntry indicates that a journal entry's debits and credits do not balance.
var ErrImbalancedEntry = errors.New("journal entry debits and credits do not balance")

// ErrUnknownAccount indicates a journal line references a missing or inactive account.
var ErrUnknownAccount = errors.New("unknown or inactive account")

// ErrInvalidState indicates a document is not in a state that permits the requested transition.
var ErrInvalidState = errors.New("invalid state transition")

// ErrPeriodLocked indicates the fiscal year has been closed by a completed year-end closing.
var ErrPeriodLocked = errors.New("fiscal period is locked")

// ErrBudgetBlocked indicates the requested spend would push a budget line past its
// block threshold and the line does not allow override.
var ErrBudgetBlocked = errors.New("budget block threshold exceeded")

// ErrConflict indicates the operation conflicts with the current state of the resource.
var ErrConflict = errors.New("operation conflicts with resource state")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")
