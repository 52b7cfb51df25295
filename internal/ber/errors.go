// Package ber implements ASN.1 BER (Basic Encoding Rules) decoding and DER
// header encoding as specified in ITU-T X.690.
package ber

import (
	"errors"
	"fmt"
)

// Decoder errors
var (
	// ErrTruncated is returned when the input ends inside a header or value.
	ErrTruncated = errors.New("ber: truncated input")

	// ErrMalformed is returned when a header cannot be decoded at all:
	// forbidden length octets, too many length octets, high tag numbers.
	ErrMalformed = errors.New("ber: malformed encoding")

	// ErrBadEncoding is returned when a length is inconsistent with the
	// bounds of its enclosing container.
	ErrBadEncoding = errors.New("ber: bad encoding")

	// ErrInvalidObject is returned when the class, tag or constructed flag
	// differs from the expected one.
	ErrInvalidObject = errors.New("ber: invalid object")

	// ErrTooShort is returned when a value is shorter than its type allows.
	ErrTooShort = errors.New("ber: object too short")

	// ErrTooLarge is returned when a value exceeds a configured ceiling.
	ErrTooLarge = errors.New("ber: object too large")

	// ErrUnsupportedEncoding is returned for valid BER this package does not
	// handle in the current position, e.g. indefinite lengths.
	ErrUnsupportedEncoding = errors.New("ber: unsupported encoding")

	// ErrNotDER is returned when DER is required but the input is BER only.
	ErrNotDER = errors.New("ber: not DER encoded")

	// ErrInvalidValue is returned when a caller supplied value is unusable.
	ErrInvalidValue = errors.New("ber: invalid value")
)

// DecodeError provides detailed information about a decoding failure.
type DecodeError struct {
	Offset  int    // Byte offset where the error occurred
	Message string // Human-readable error description
	Err     error  // Underlying error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ber: decode error at offset %d: %s: %v", e.Offset, e.Message, e.Err)
	}
	return fmt.Sprintf("ber: decode error at offset %d: %s", e.Offset, e.Message)
}

// Unwrap returns the underlying error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// NewDecodeError creates a new DecodeError with the given parameters.
func NewDecodeError(offset int, message string, err error) *DecodeError {
	return &DecodeError{
		Offset:  offset,
		Message: message,
		Err:     err,
	}
}

// TagMismatchError provides detailed information about a tag mismatch.
type TagMismatchError struct {
	Offset            int
	ExpectedClass     int
	ExpectedNumber    int
	ActualClass       int
	ActualNumber      int
	ActualConstructed bool
}

// Error implements the error interface.
func (e *TagMismatchError) Error() string {
	return fmt.Sprintf("ber: tag mismatch at offset %d: expected class=%#x number=%d, got class=%#x number=%d constructed=%t",
		e.Offset, e.ExpectedClass, e.ExpectedNumber, e.ActualClass, e.ActualNumber, e.ActualConstructed)
}

// Is allows TagMismatchError to match ErrInvalidObject with errors.Is.
func (e *TagMismatchError) Is(target error) bool {
	return target == ErrInvalidObject
}
