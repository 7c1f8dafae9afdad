package envelope

import (
	"net/http"

	apperrors "github.com/tutorhub/console/internal/errors"
)

// Result is the normalized outcome of a result-style service operation. It never
// needs an accompanying error: failures are described by Success, Error, Status
// and Cause.
type Result[T any] struct {
	Success bool
	Data    T
	Headers http.Header
	// Error is the best-effort human-readable failure message.
	Error string
	// Status is the HTTP status when a response was received.
	Status int
	// Body is the raw response body of a business outcome such as a conflict,
	// including fields Data does not model.
	Body  []byte
	Cause error
}

// OK builds a successful result.
func OK[T any](data T, headers http.Header) Result[T] {
	return Result[T]{Success: true, Data: data, Headers: headers}
}

// Fail converts err into a failed result.
func Fail[T any](err error) Result[T] {
	return Result[T]{
		Error:  apperrors.Message(err),
		Status: apperrors.StatusOf(err),
		Cause:  err,
	}
}

// Err returns the failure cause, or nil on success.
func (r Result[T]) Err() error {
	if r.Success {
		return nil
	}
	return r.Cause
}

// SessionExpired reports whether the call was cut short by the 401 interceptor.
func (r Result[T]) SessionExpired() bool {
	return !r.Success && apperrors.IsSessionExpired(r.Cause)
}

// Conflict reports a business-rule conflict. Data then holds the conflict payload.
func (r Result[T]) Conflict() bool {
	return !r.Success && apperrors.IsConflict(r.Cause)
}

// NotFound reports a 404.
func (r Result[T]) NotFound() bool {
	return !r.Success && r.Status == http.StatusNotFound
}
