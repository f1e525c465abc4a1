package coderunner

import (
	"errors"
	"fmt"
)

const (
	msgCodeRequired         = "Code content must be provided for the 'create' operation."
	msgFindReplaceRequired  = "A find/replace message must be provided for the 'update' operation."
	msgUnsupportedOperation = "Unsupported operation"
	msgUnknownBackendError  = "Unknown error occurred."
)

// ValidationError reports a request rejected before any network call.
type ValidationError struct {
	Operation Operation
	Message   string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// TransportError wraps a failure to complete the HTTP exchange, including an
// unreadable success body.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	if e.Err == nil {
		return "transport error"
	}
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// BackendError reports a response outside the 2xx class.
type BackendError struct {
	StatusCode int
	Message    string
}

func (e *BackendError) Error() string {
	return e.Message
}

func errorKind(err error) string {
	var (
		validationErr *ValidationError
		transportErr  *TransportError
		backendErr    *BackendError
	)
	switch {
	case errors.As(err, &validationErr):
		return "validation"
	case errors.As(err, &transportErr):
		return "transport"
	case errors.As(err, &backendErr):
		return fmt.Sprintf("backend_%d", backendErr.StatusCode)
	default:
		return "unknown"
	}
}
