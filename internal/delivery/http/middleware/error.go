package middleware

import (
	"errors"
	"log"

	"car-finder/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type AppError struct {
	StatusCode int
	Message    string
	Cause      error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func NewAppError(statusCode int, message string, cause error) *AppError {
	return &AppError{StatusCode: statusCode, Message: message, Cause: cause}
}

// ErrorMiddleware converts handler errors into the API's flat JSON error
// bodies and recovers panics into 500s.
type ErrorMiddleware struct{}

func NewErrorMiddleware() *ErrorMiddleware {
	return &ErrorMiddleware{}
}

func (m *ErrorMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("panic recovered: %v", r)
				err = response.Error(c, fiber.StatusInternalServerError, response.MessageInternalServerError, nil)
			}
		}()

		err = c.Next()
		if err == nil {
			return nil
		}

		var appErr *AppError
		if errors.As(err, &appErr) {
			status := appErr.StatusCode
			if status <= 0 {
				status = fiber.StatusInternalServerError
			}
			return response.Error(c, status, appErr.Message, appErr.Cause)
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			status := fiberErr.Code
			if status <= 0 {
				status = fiber.StatusInternalServerError
			}
			return response.Error(c, status, fiberErr.Message, nil)
		}

		return response.Error(c, fiber.StatusInternalServerError, response.MessageInternalServerError, nil)
	}
}
