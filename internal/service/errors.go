package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/karent-api/internal/domain"
	"github.com/phrazzld/karent-api/internal/redact"
	"github.com/phrazzld/karent-api/internal/store"
)

// ErrNilDependency is returned by constructors when a required dependency is nil.
var ErrNilDependency = errors.New("required dependency is nil")

// ServiceError wraps constructor and wiring failures with the operation that
// raised them.
type ServiceError struct {
	// Service is the service that failed (e.g., "car", "rental")
	Service string
	// Operation is the operation that failed (e.g., "create_service")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s service %s failed: %s: %v", e.Service, e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s service %s failed: %s", e.Service, e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

func missingDependency(service, name string) error {
	return &ServiceError{
		Service:   service,
		Operation: "create_service",
		Message:   name + " cannot be nil",
		Err:       ErrNilDependency,
	}
}

// statusError aborts a transaction with a business outcome.
type statusError struct {
	status  Status
	message string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("%s: %s", e.status, e.message)
}

func abort(status Status, message string) error {
	return &statusError{status: status, message: message}
}

// outcome turns an error returned from a store or a transaction into a
// Result. Known sentinels map onto business statuses; everything else is
// logged and reported as StatusInternalError with a generic message.
func outcome[T any](ctx context.Context, log *slog.Logger, op string, msgs messages, err error) Result[T] {
	var se *statusError
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &se):
		return fail[T](se.status, se.message)
	case errors.As(err, &ve):
		return fail[T](StatusBadRequest, ve.Message)
	case errors.Is(err, store.ErrCarNotFound):
		return fail[T](StatusNotFound, carMessages.notFound())
	case errors.Is(err, store.ErrUserNotFound):
		return fail[T](StatusNotFound, userMessages.notFound())
	case errors.Is(err, store.ErrRentalNotFound):
		return fail[T](StatusNotFound, rentalMessages.notFound())
	case errors.Is(err, store.ErrRentalReturnNotFound):
		return fail[T](StatusNotFound, rentalReturnMessages.notFound())
	case store.IsNotFoundError(err):
		return fail[T](StatusNotFound, msgs.notFound())
	case errors.Is(err, store.ErrRentalAlreadyReturned):
		return fail[T](StatusConflict, MsgRentalAlreadyReturned)
	case store.IsDuplicateError(err):
		return fail[T](StatusConflict, msgs.duplicate())
	case errors.Is(err, store.ErrForeignKey):
		if strings.HasPrefix(op, "delete") {
			return fail[T](StatusConflict, msgs.inUse())
		}
		// a write referencing a row that does not exist
		return fail[T](StatusNotFound, MsgReferenceNotFound)
	}

	attrs := []any{
		slog.String("operation", op),
		slog.String("error", redact.Error(err)),
	}
	var storeErr *store.StoreError
	if errors.As(err, &storeErr) {
		attrs = append(attrs,
			slog.String("store_entity", storeErr.Entity),
			slog.String("store_operation", storeErr.Operation))
	}
	log.ErrorContext(ctx, "unexpected failure", attrs...)
	return Result[T]{Status: StatusInternalError, Message: msgs.internal(), Err: err}
}
