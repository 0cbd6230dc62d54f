package constants

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// ErrorCode is the closed set of failure kinds surfaced by the flight core.
// Provider specific codes never leave the client boundary.
type ErrorCode string

const (
	ErrCodeNoConnection   ErrorCode = "NO_CONNECTION"
	ErrCodeTimeout        ErrorCode = "TIMEOUT"
	ErrCodeUnauthorized   ErrorCode = "UNAUTHORIZED"
	ErrCodeRateLimited    ErrorCode = "RATE_LIMITED"
	ErrCodeNotFound       ErrorCode = "NOT_FOUND"
	ErrCodeServerError    ErrorCode = "SERVER_ERROR"
	ErrCodeDecodingError  ErrorCode = "DECODING_ERROR"
	ErrCodeInvalidRequest ErrorCode = "INVALID_REQUEST"
	ErrCodeUnknown        ErrorCode = "UNKNOWN"
)

// AviationStack embeds its own error codes in 200 responses.
const (
	AviationStackInvalidAccessKey = 101
	AviationStackMissingAccessKey = 102
	AviationStackUsageLimit       = 104
)

var ErrorMessages = map[ErrorCode]string{
	ErrCodeNoConnection:   "No internet connection",
	ErrCodeTimeout:        "The request timed out",
	ErrCodeUnauthorized:   "The API key is invalid or missing",
	ErrCodeRateLimited:    "Request quota exceeded. Please try again later",
	ErrCodeNotFound:       "The requested resource was not found",
	ErrCodeServerError:    "The data provider returned an error",
	ErrCodeDecodingError:  "Unable to read the provider response",
	ErrCodeInvalidRequest: "The request is invalid",
	ErrCodeUnknown:        "An unknown error occurred",
}

// GetErrorMessage returns the human-readable message for an error code
func GetErrorMessage(code ErrorCode) string {
	if msg, exists := ErrorMessages[code]; exists {
		return msg
	}
	return ErrorMessages[ErrCodeUnknown]
}

// AppError is the only error shape callers of the flight core receive.
// StatusCode carries the provider/HTTP code for ErrCodeServerError (-1 when unknown).
type AppError struct {
	Code       ErrorCode
	StatusCode int
	Message    string
	Err        error
}

func (e *AppError) Error() string {
	if e.Code == ErrCodeServerError {
		return fmt.Sprintf("%s (code %d)", e.Message, e.StatusCode)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches on the taxonomy code so errors.Is(err, &AppError{Code: ...}) works.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

func NewAppError(code ErrorCode, err error) *AppError {
	return &AppError{Code: code, Message: GetErrorMessage(code), Err: err}
}

func NewServerError(statusCode int) *AppError {
	return &AppError{Code: ErrCodeServerError, StatusCode: statusCode, Message: GetErrorMessage(ErrCodeServerError)}
}

// CodeFromHTTPStatus maps a non-2xx response status into the taxonomy.
func CodeFromHTTPStatus(status int) ErrorCode {
	switch status {
	case http.StatusUnauthorized:
		return ErrCodeUnauthorized
	case http.StatusNotFound:
		return ErrCodeNotFound
	case http.StatusTooManyRequests:
		return ErrCodeRateLimited
	case http.StatusBadRequest:
		return ErrCodeInvalidRequest
	default:
		return ErrCodeServerError
	}
}

// CodeFromAviationStack maps the embedded error code of a 200 response.
func CodeFromAviationStack(code int) ErrorCode {
	switch code {
	case AviationStackInvalidAccessKey, AviationStackMissingAccessKey:
		return ErrCodeUnauthorized
	case AviationStackUsageLimit:
		return ErrCodeRateLimited
	default:
		return ErrCodeServerError
	}
}

// appErrorer is implemented by client-level errors that know their taxonomy value.
type appErrorer interface {
	AppError() *AppError
}

// AsAppError folds any error into the closed taxonomy.
func AsAppError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var coder appErrorer
	if errors.As(err, &coder) {
		return coder.AppError()
	}

	return NewAppError(ClassifyTransportError(err), err)
}

// IsCancelled reports whether err comes from the caller giving up rather
// than from the provider or the network.
func IsCancelled(err error) bool {
	return errors.Is(err, context.Canceled)
}

// ClassifyTransportError distinguishes timeouts from connectivity and decoding
// failures. A cancelled call says nothing about the network and stays Unknown.
func ClassifyTransportError(err error) ErrorCode {
	if IsCancelled(err) {
		return ErrCodeUnknown
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrCodeTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrCodeTimeout
	}

	var dnsErr *net.DNSError
	var opErr *net.OpError
	if errors.As(err, &dnsErr) || errors.As(err, &opErr) {
		return ErrCodeNoConnection
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return ErrCodeDecodingError
	}

	return ErrCodeUnknown
}

// HTTPStatus is the status the HTTP surface answers with for a taxonomy value.
func (e *AppError) HTTPStatus() int {
	switch e.Code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case ErrCodeNoConnection:
		return http.StatusServiceUnavailable
	case ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case ErrCodeServerError, ErrCodeDecodingError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
