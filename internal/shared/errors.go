package shared

import "errors"

// Error kinds. Handlers map these to HTTP status codes.
var (
	// ErrValidation indicates malformed or missing input.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound indicates resource not found or not owned by the caller.
	ErrNotFound = errors.New("not found")
	// ErrConflict indicates a uniqueness or concurrency conflict.
	ErrConflict = errors.New("conflict")
	// ErrBusinessRule indicates an operation rejected by a domain invariant.
	ErrBusinessRule = errors.New("business rule violated")
	// ErrUnauthenticated indicates a missing or invalid login.
	ErrUnauthenticated = errors.New("unauthenticated")
)

var (
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = NewError(ErrUnauthenticated, "invalid username or password")
	// ErrCSRFTokenMissing occurs when CSRF token missing.
	ErrCSRFTokenMissing = errors.New("csrf token missing")
	// ErrCSRFTokenMismatch occurs when CSRF tokens do not match.
	ErrCSRFTokenMismatch = errors.New("csrf token mismatch")
)

// Error carries a user-facing message classified by one of the error kinds.
type Error struct {
	kind error
	msg  string
}

// NewError builds an error of the given kind. errors.Is(err, kind) holds for the result.
func NewError(kind error, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

func (e *Error) Error() string {
	return e.msg
}

func (e *Error) Unwrap() error {
	return e.kind
}

// Kind returns the classification of err, or nil when err is unclassified.
func Kind(err error) error {
	for _, kind := range []error{ErrValidation, ErrNotFound, ErrConflict, ErrBusinessRule, ErrUnauthenticated} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
