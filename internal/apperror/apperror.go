package apperror

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// ErrNotFound is matched by every not-found error returned by the catalogs.
var ErrNotFound = errors.New("not found")

// ValidationError reports missing or invalid client input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Validation builds a ValidationError with the given message.
func Validation(message string) error {
	return &ValidationError{Message: message}
}

type notFoundError struct {
	message string
}

func (e *notFoundError) Error() string { return e.message }

func (e *notFoundError) Is(target error) bool { return target == ErrNotFound }

// NotFound returns an error carrying a caller facing message that still
// satisfies errors.Is(err, ErrNotFound).
func NotFound(message string) error {
	return &notFoundError{message: message}
}

// StoreError wraps a persistence failure. The message of the underlying
// error is what callers see.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	if e.Err == nil {
		return e.Op
	}
	return e.Err.Error()
}

func (e *StoreError) Unwrap() error { return e.Err }

// Store wraps err as a StoreError unless it is nil or already classified.
func Store(op string, err error) error {
	if err == nil {
		return nil
	}
	var ve *ValidationError
	var se *StoreError
	if errors.Is(err, ErrNotFound) || errors.As(err, &ve) || errors.As(err, &se) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}

// Status maps an error to the HTTP status code of the API.
func Status(err error) int {
	var ve *ValidationError
	switch {
	case err == nil:
		return fiber.StatusOK
	case errors.As(err, &ve):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// Respond writes err as the `{error: message}` envelope with the mapped status.
func Respond(c *fiber.Ctx, err error) error {
	return c.Status(Status(err)).JSON(fiber.Map{"error": err.Error()})
}
