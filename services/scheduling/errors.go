package scheduling

import (
	"errors"
	"fmt"
)

// Error codes for the booking engine taxonomy.
const (
	CodeNotFound   = "notFound"   // referenced doctor/branch/service/appointment does not exist
	CodeValidation = "validation" // malformed or out-of-range input
	CodeConflict   = "conflict"   // the requested slot collided with an existing reservation
	CodeUpstream   = "upstream"   // a storage collaborator failed for non-business reasons
)

// Error is a coded engine error. Conflict errors are expected and
// recoverable: the caller should re-query availability and re-prompt, not
// retry the same request.
type Error struct {
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func NewNotFoundError(format string, args ...interface{}) error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

func NewValidationError(format string, args ...interface{}) error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

func NewConflictError(format string, args ...interface{}) error {
	return &Error{Code: CodeConflict, Message: fmt.Sprintf(format, args...)}
}

func NewUpstreamError(msg string, cause error) error {
	return &Error{Code: CodeUpstream, Message: msg, Err: cause}
}

func hasCode(err error, code string) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

func IsNotFound(err error) bool   { return hasCode(err, CodeNotFound) }
func IsValidation(err error) bool { return hasCode(err, CodeValidation) }
func IsConflict(err error) bool   { return hasCode(err, CodeConflict) }
func IsUpstream(err error) bool   { return hasCode(err, CodeUpstream) }
