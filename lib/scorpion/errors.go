package scorpion

import (
	"errors"
	"fmt"
	"scorpion-client/lib/restyutil"
)

// ErrEmptyResult is returned when an operation needs the first element of
// a result list that the server returned empty.
var ErrEmptyResult = errors.New("empty result")

var (
	ErrMissingField = errors.New("missing required field")
	ErrNullField    = errors.New("null value for non-nullable field")
)

// HTTPError is returned for any response with a non-2xx status code, it is
// shared with the data sources.
type HTTPError = restyutil.HTTPError

// DecodeError reports a payload that does not match the expected shape.
// Field is the path of the offending field, like `result[0].consortia`.
type DecodeError struct {
	Field string
	Err   error
}

func (e *DecodeError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("decode: %s", e.Err)
	}
	return fmt.Sprintf("decode %s: %s", e.Field, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
