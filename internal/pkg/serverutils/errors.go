package serverutils

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AppError carries an HTTP status alongside a user-facing message.
type AppError struct {
	Code    int
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

func NewAppError(code int, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

var validate = validator.New()

// ValidateRequest runs struct-tag validation on a parsed request body and
// converts failures into a 400 AppError.
func ValidateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		return NewAppError(fiber.StatusBadRequest, err.Error())
	}
	return nil
}

// ErrorHandlerMiddleware converts errors bubbling out of handlers into the
// JSON envelope. Streaming handlers never return errors once the stream
// started; everything here happens before the first byte is written.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code := fiber.StatusInternalServerError
		message := err.Error()

		var appErr *AppError
		var fiberErr *fiber.Error
		switch {
		case errors.As(err, &appErr):
			code = appErr.Code
		case errors.As(err, &fiberErr):
			code = fiberErr.Code
		}

		return ctx.Status(code).JSON(fiber.Map{
			"success": false,
			"message": message,
		})
	}
}
