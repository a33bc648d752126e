package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware converts errors escaping controllers into the JSON
// error envelope. Unknown errors become a generic 500 without leaking
// internals to the client.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var apiErr *ApiError
		if errors.As(err, &apiErr) {
			return ctx.Status(apiErr.Code).JSON(ErrorResponse{
				Success:   false,
				Code:      apiErr.Code,
				Message:   apiErr.Message,
				ErrorType: apiErr.ErrorType,
			})
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse{
				Success: false,
				Code:    fiberErr.Code,
				Message: fiberErr.Message,
			})
		}

		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Success: false,
			Code:    fiber.StatusInternalServerError,
			Message: "Internal server error",
		})
	}
}
