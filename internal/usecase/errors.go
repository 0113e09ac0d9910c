package usecase

import "fmt"

type ErrorCode string

const (
	ErrorInvalidInput      ErrorCode = "INVALID_INPUT"
	ErrorNotFound          ErrorCode = "NOT_FOUND"
	ErrorNoActiveCase      ErrorCode = "NO_ACTIVE_CASE"
	ErrorWrongPhase        ErrorCode = "WRONG_PHASE"
	ErrorNotVerified       ErrorCode = "NOT_VERIFIED"
	ErrorAmbiguousResponse ErrorCode = "AMBIGUOUS_RESPONSE"
	ErrorNotPersisted      ErrorCode = "NOT_PERSISTED"
	ErrorStoreUnavailable  ErrorCode = "STORE_UNAVAILABLE"
	ErrorInternal          ErrorCode = "INTERNAL_ERROR"
)

// Error is a named, recoverable failure of a call operation. Prompt is the
// corrective line the driver speaks back to the caller.
type Error struct {
	Code   ErrorCode
	Reason string
	Prompt string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return fmt.Sprintf("usecase: %s (%s)", e.Code, e.Reason)
	}
	return fmt.Sprintf("usecase: %s (%s): %v", e.Code, e.Reason, e.Err)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func newError(code ErrorCode, reason, prompt string, err error) *Error {
	return &Error{Code: code, Reason: reason, Prompt: prompt, Err: err}
}
