package httputil

import (
	"github.com/tutorhub/console/internal/envelope"
	apperrors "github.com/tutorhub/console/internal/errors"
)

// Decoder reads a typed payload from a response body.
type Decoder[T any] interface {
	Decode(body []byte) (T, error)
}

// Into finishes a throwing operation: the request error is returned as-is,
// otherwise the payload is decoded from the body.
func Into[T any](resp *Response, err error, dec Decoder[T]) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	v, derr := dec.Decode(resp.Body)
	if derr != nil {
		return zero, apperrors.Decode(resp.Status, derr, resp.Body)
	}
	return v, nil
}

// ToResult finishes a result-style operation. Failures never escape as errors.
func ToResult[T any](resp *Response, err error, dec Decoder[T]) envelope.Result[T] {
	v, err := Into(resp, err, dec)
	if err != nil {
		return envelope.Fail[T](err)
	}
	return envelope.OK(v, resp.Header)
}
