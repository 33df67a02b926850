package contract

import (
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrorCodeInvalidParameterValue ErrorCode = "INVALID_PARAMETER_VALUE"
	ErrorCodeBadRequest            ErrorCode = "BAD_REQUEST"
	ErrorCodeResourceAlreadyExists ErrorCode = "RESOURCE_ALREADY_EXISTS"
	ErrorCodeResourceDoesNotExist  ErrorCode = "RESOURCE_DOES_NOT_EXIST"
	ErrorCodeEndpointNotFound      ErrorCode = "ENDPOINT_NOT_FOUND"
	ErrorCodeServiceUnavailable    ErrorCode = "SERVICE_UNDER_MAINTENANCE"
	ErrorCodeInternalError         ErrorCode = "INTERNAL_ERROR"
)

type Error struct {
	Code    ErrorCode `json:"error_code"`
	Message string    `json:"message"`
	Inner   error     `json:"-"`
}

func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

func NewErrorWith(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Inner:   err,
	}
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Inner != nil {
		return fmt.Sprintf("%s: %s", msg, e.Inner)
	}

	return msg
}

func (e *Error) Unwrap() error {
	return e.Inner
}

// StatusCode is the precise HTTP status for the error code.
func (e *Error) StatusCode() int {
	switch e.Code {
	case ErrorCodeInvalidParameterValue, ErrorCodeBadRequest:
		return http.StatusBadRequest
	case ErrorCodeResourceAlreadyExists:
		return http.StatusConflict
	case ErrorCodeResourceDoesNotExist, ErrorCodeEndpointNotFound:
		return http.StatusNotFound
	case ErrorCodeServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// CompatStatusCode collapses conflicts and missing resources onto 400, which is what
// existing clients of the service expect. Unknown endpoints keep their 404.
func (e *Error) CompatStatusCode() int {
	switch e.Code {
	case ErrorCodeResourceAlreadyExists, ErrorCodeResourceDoesNotExist:
		return http.StatusBadRequest
	default:
		return e.StatusCode()
	}
}
