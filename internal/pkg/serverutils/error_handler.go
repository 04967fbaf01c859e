package serverutils

import (
	"errors"

	"legifai-be/pkg/rag/conversation"
	"legifai-be/pkg/rag/stage"
	"legifai-be/pkg/store"

	"github.com/gofiber/fiber/v2"
)

// StatusFor maps domain errors to HTTP status codes.
func StatusFor(err error) int {
	var fiberErr *fiber.Error
	var retrievalErr *conversation.RetrievalError
	var generationErr *conversation.GenerationError

	switch {
	case errors.As(err, &fiberErr):
		return fiberErr.Code
	case errors.Is(err, store.ErrInvalidSessionID), errors.Is(err, stage.ErrInvalidArgument):
		return fiber.StatusBadRequest
	case errors.Is(err, conversation.ErrSessionBusy):
		return fiber.StatusConflict
	case errors.As(err, &retrievalErr), errors.As(err, &generationErr):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorHandlerMiddleware renders any error returned by a handler as an error
// envelope.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		if err == nil {
			return nil
		}

		code := StatusFor(err)
		return c.Status(code).JSON(ErrorResponse(code, err.Error()))
	}
}
