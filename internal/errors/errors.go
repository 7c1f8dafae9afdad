// Package errors defines the error taxonomy shared by the HTTP client factory
// and every service client.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Kind classifies a ServiceError.
type Kind string

const (
	// KindTransport means no response was received (dial, TLS, context).
	KindTransport Kind = "transport"
	// KindStatus means the backend answered with a non-2xx status.
	KindStatus Kind = "status"
	// KindSessionExpired means the backend answered 401 and the session was dropped.
	KindSessionExpired Kind = "session_expired"
	// KindConflict is a business-rule conflict (409 on coin deduction).
	KindConflict Kind = "conflict"
	// KindValidation means the request was rejected before reaching the network.
	KindValidation Kind = "validation"
	// KindDecode means the response arrived but its envelope could not be read.
	KindDecode Kind = "decode"
)

var (
	ErrSessionExpired = stderrors.New("session expired")
	ErrConflict       = stderrors.New("business rule conflict")
	ErrNotFound       = stderrors.New("not found")
	ErrValidation     = stderrors.New("invalid input")
)

// ServiceError is returned by the client factory and by throwing service operations.
type ServiceError struct {
	Kind    Kind
	Status  int
	Message string
	Fields  map[string]string
	Body    []byte
	Err     error
}

func (e *ServiceError) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if e.Status != 0 {
		fmt.Fprintf(&b, " (%d)", e.Status)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	} else if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap exposes the matching sentinel so callers can use errors.Is.
func (e *ServiceError) Unwrap() []error {
	errs := make([]error, 0, 2)
	switch e.Kind {
	case KindSessionExpired:
		errs = append(errs, ErrSessionExpired)
	case KindConflict:
		errs = append(errs, ErrConflict)
	case KindValidation:
		errs = append(errs, ErrValidation)
	case KindStatus:
		if e.Status == http.StatusNotFound {
			errs = append(errs, ErrNotFound)
		}
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// Transport wraps an error raised before any response was received.
func Transport(err error) *ServiceError {
	return &ServiceError{Kind: KindTransport, Err: err}
}

// Status builds an error for a received non-2xx response.
func Status(status int, message string, body []byte) *ServiceError {
	if message == "" {
		message = http.StatusText(status)
	}
	return &ServiceError{Kind: KindStatus, Status: status, Message: message, Body: body}
}

// SessionExpired builds the error returned after the 401 interceptor ran.
func SessionExpired(body []byte) *ServiceError {
	return &ServiceError{
		Kind:    KindSessionExpired,
		Status:  http.StatusUnauthorized,
		Message: "your session has expired, please log in again",
		Body:    body,
	}
}

// Conflict builds a business-rule conflict error carrying the backend message.
func Conflict(message string, body []byte) *ServiceError {
	return &ServiceError{Kind: KindConflict, Status: http.StatusConflict, Message: message, Body: body}
}

// Validation builds a client-side validation error with per-field messages.
func Validation(fields map[string]string) *ServiceError {
	keys := make([]string, 0, len(fields))
	for k, v := range fields {
		keys = append(keys, k+": "+v)
	}
	sort.Strings(keys)
	return &ServiceError{Kind: KindValidation, Message: strings.Join(keys, "; "), Fields: fields}
}

// Decode wraps an envelope decoding failure.
func Decode(status int, err error, body []byte) *ServiceError {
	return &ServiceError{Kind: KindDecode, Status: status, Err: err, Body: body}
}

// As returns the ServiceError inside err, if any.
func As(err error) (*ServiceError, bool) {
	var se *ServiceError
	if stderrors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	if se, ok := As(err); ok {
		return se.Status
	}
	return 0
}

// Message returns the human-readable text for err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	if se, ok := As(err); ok {
		if se.Message != "" {
			return se.Message
		}
		if se.Err != nil {
			return se.Err.Error()
		}
	}
	return err.Error()
}

// IsNotFound reports whether err is a 404.
func IsNotFound(err error) bool { return stderrors.Is(err, ErrNotFound) }

// IsSessionExpired reports whether err came from the 401 interceptor.
func IsSessionExpired(err error) bool { return stderrors.Is(err, ErrSessionExpired) }

// IsConflict reports whether err is a business-rule conflict.
func IsConflict(err error) bool { return stderrors.Is(err, ErrConflict) }

// IsValidation reports whether err is a client-side validation failure.
func IsValidation(err error) bool { return stderrors.Is(err, ErrValidation) }
