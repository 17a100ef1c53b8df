package services

import "errors"

// Kind classifies a service failure. Handlers map kinds onto the boundary
// contract (redirects for browser clients, status codes for JSON clients);
// services never leak raw store errors for these cases.
type Kind int

const (
	// Unauthenticated means no actor identity was supplied.
	Unauthenticated Kind = iota
	// Unauthorized means the actor is present but does not own the resource.
	Unauthorized
	// ValidationFailed carries field-level messages; nothing was persisted.
	ValidationFailed
	// NotFound means the referenced id did not resolve.
	NotFound
	// OperationFailed means an authorized action was rejected by the store;
	// prior state is retained.
	OperationFailed
)

type Error struct {
	Kind    Kind
	Message string

	// Fields maps attribute names to validation messages. Only set for
	// ValidationFailed.
	Fields map[string][]string
}

func (e *Error) Error() string {
	return e.Message
}

func ErrUnauthenticated() *Error {
	return &Error{Kind: Unauthenticated, Message: "sign in required"}
}

func ErrUnauthorized() *Error {
	return &Error{Kind: Unauthorized, Message: "not authorized"}
}

func ErrNotFound(message string) *Error {
	return &Error{Kind: NotFound, Message: message}
}

func ErrOperationFailed(message string) *Error {
	return &Error{Kind: OperationFailed, Message: message}
}

func ErrValidation(fields map[string][]string) *Error {
	return &Error{Kind: ValidationFailed, Message: "validation failed", Fields: fields}
}

// IsKind reports whether err is a service Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var serviceErr *Error

	if !errors.As(err, &serviceErr) {
		return false
	}

	return serviceErr.Kind == kind
}
