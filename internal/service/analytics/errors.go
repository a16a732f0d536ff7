package analytics

import (
	"errors"
	"fmt"
)

// ErrMissingAccount indicates a request without an account id.
var ErrMissingAccount = errors.New("account_id is required")

// InputError reports an invalid caller request. No computation is attempted.
type InputError struct {
	Field   string
	Message string
}

func (e *InputError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewInputError builds an InputError for field.
func NewInputError(field, format string, args ...any) *InputError {
	return &InputError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// DataAccessError reports a failed read from the external data store. It
// aborts the whole computation.
type DataAccessError struct {
	Source string
	Err    error
}

func (e *DataAccessError) Error() string {
	return fmt.Sprintf("data access failed reading %s: %v", e.Source, e.Err)
}

func (e *DataAccessError) Unwrap() error {
	return e.Err
}

// IsInputError reports whether err carries an InputError.
func IsInputError(err error) bool {
	var ie *InputError
	return errors.As(err, &ie)
}

// IsDataAccessError reports whether err carries a DataAccessError.
func IsDataAccessError(err error) bool {
	var de *DataAccessError
	return errors.As(err, &de)
}
