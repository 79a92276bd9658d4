package models

import (
	"errors"
	"fmt"
)

// ErrorCode classifies extraction failures. The manager uses codes to decide
// whether advancing to the next strategy can help.
type ErrorCode string

const (
	ErrFetchFailed       ErrorCode = "FETCH_FAILED"
	ErrParseFailed       ErrorCode = "PARSE_FAILED"
	ErrNoContent         ErrorCode = "NO_CONTENT"
	ErrInvalidURL        ErrorCode = "INVALID_URL"
	ErrTimeout           ErrorCode = "TIMEOUT"
	ErrExtractionFailed  ErrorCode = "EXTRACTION_FAILED"
	ErrUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT"
)

// ExtractionError carries enough context to decide whether to retry with the
// next strategy or abort.
type ExtractionError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Input   string    `json:"input"`
	Stage   Stage     `json:"stage,omitempty"`
	Cause   error     `json:"-"`
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// NewError builds an ExtractionError without a cause.
func NewError(code ErrorCode, input, message string) *ExtractionError {
	return &ExtractionError{Code: code, Message: message, Input: input}
}

// WrapError builds an ExtractionError around a cause.
func WrapError(code ErrorCode, input, message string, cause error) *ExtractionError {
	return &ExtractionError{Code: code, Message: message, Input: input, Cause: cause}
}

// AsExtractionError unwraps err into an *ExtractionError, converting foreign
// errors into EXTRACTION_FAILED so batch results always carry a code.
func AsExtractionError(err error, input string) *ExtractionError {
	var ee *ExtractionError
	if errors.As(err, &ee) {
		return ee
	}
	return WrapError(ErrExtractionFailed, input, "extraction failed", err)
}
