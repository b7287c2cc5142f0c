package common

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// AppError is a coded application error. Code is a stable machine
// readable identifier, Message adds human readable context.
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func NewAppError(code, message string, cause error) *AppError {
	return &AppError{Code: code, Message: message, Cause: cause}
}

// Sentinels for errors.Is checks across layers.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
)

// gRPC error helpers
func InvalidArgumentErrorf(format string, args ...any) error {
	return status.Errorf(codes.InvalidArgument, format, args...)
}

func InternalErrorf(format string, args ...any) error {
	return status.Errorf(codes.Internal, format, args...)
}
