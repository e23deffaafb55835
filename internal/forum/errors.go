package forum

import "errors"

// Kind classifies an error into the stable taxonomy clients branch on.
type Kind int

// Error kinds.
const (
	KindUnexpected Kind = iota
	KindNotFound
	KindValidation
	KindForbidden
	KindConflict
	KindStorage
)

// Error is a classified forum error. Callers are expected to branch on
// Kind, not on the message text.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new classified error
func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// WrapError classifies an underlying error
func WrapError(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the kind from an error, defaulting to unexpected.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnexpected
}
