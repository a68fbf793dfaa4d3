package hypothesis

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is checks
var (
	// ErrValidation matches every *ValidationError
	ErrValidation = errors.New("validation failed")
	// ErrEncoding matches every *EncodingError
	ErrEncoding = errors.New("unsupported query parameter value")
	// ErrUnauthorized matches API errors with status 401 or 403
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound matches API errors with status 404
	ErrNotFound = errors.New("resource not found")
	// ErrConflict matches API errors with status 409
	ErrConflict = errors.New("conflict")
)

// statusTitles maps the status codes documented by the Hypothesis API to a
// short title. Anything else is reported as "Unexpected Error".
var statusTitles = map[int]string{
	400: "Bad Request",
	403: "Unauthorized",
	404: "Not Found",
	406: "Not Acceptable",
	409: "Conflict",
	500: "Server Error",
}

// StatusTitle returns the human title used in API error messages for code.
func StatusTitle(code int) string {
	if title, ok := statusTitles[code]; ok {
		return title
	}
	return "Unexpected Error"
}

// ValidationError is returned when a request argument or a decoded response
// does not match the expected shape. Err names the offending fields.
type ValidationError struct {
	Target string
	Err    error
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Target, e.Err)
}

// Unwrap returns the underlying validation or decode error
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrValidation
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// APIError is returned when the service answers with a status other than
// 200 or 204.
type APIError struct {
	StatusCode int
	Title      string
	Reason     string
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("%d (%s): %s", e.StatusCode, e.Title, e.Reason)
}

// Is implements errors.Is for sentinel error matching.
func (e *APIError) Is(target error) bool {
	switch e.StatusCode {
	case 401, 403:
		return target == ErrUnauthorized
	case 404:
		return target == ErrNotFound
	case 409:
		return target == ErrConflict
	}
	return false
}

// IsNotFound checks if the error indicates a not found response
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == 404
}

// IsUnauthorized checks if the error indicates an authentication failure
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == 401 || e.StatusCode == 403
}

// EncodingError is returned by EncodeQuery for values it cannot serialize.
type EncodingError struct {
	Key   string
	Value any
}

// Error implements the error interface
func (e *EncodingError) Error() string {
	return fmt.Sprintf("query parameter %q: unexpected type %T", e.Key, e.Value)
}

// Is reports whether target is ErrEncoding
func (e *EncodingError) Is(target error) bool {
	return target == ErrEncoding
}

// NetworkError wraps a transport-level failure; no response was received.
type NetworkError struct {
	Method string
	URL    string
	Err    error
}

// Error implements the error interface
func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

// Unwrap returns the underlying transport error
func (e *NetworkError) Unwrap() error {
	return e.Err
}
