package errors

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	ErrWorkerPanic      = fmt.Errorf("worker panic")
	ErrEmptyWords       = fmt.Errorf("no words have been found")
	ErrInvalidPayload   = fmt.Errorf("invalid event payload")
	ErrInvalidUserName  = fmt.Errorf("invalid user name")
	ErrInvalidMessage   = fmt.Errorf("invalid message")
	ErrHandleClosed     = fmt.Errorf("delivery path closed")
	ErrDeliveryTimeout  = fmt.Errorf("delivery path full")
	ErrInvalidCharacter = fmt.Errorf("replacement must be a single character")
	ErrRelayStopped     = fmt.Errorf("relay is shutting down")
)

// MapToGRPCError converts service errors into gRPC status errors.
// Validation problems are the caller's fault, a stopping relay is unavailable,
// anything else is internal.
func MapToGRPCError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, ErrInvalidUserName),
		errors.Is(err, ErrInvalidMessage),
		errors.As(err, &validationErrors):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, ErrRelayStopped):
		return status.Error(codes.Unavailable, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

func Is(err, target error) bool {
	return errors.Is(err, target)
}

func As(err error, target any) bool {
	return errors.As(err, target)
}
