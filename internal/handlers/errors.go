package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/interview-agent/internal/services"
)

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &fiberErr):
		return fiberErr.Code
	case errors.Is(err, services.ErrInterviewNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, services.ErrMissingSessionData),
		errors.Is(err, services.ErrNoConversation),
		errors.Is(err, services.ErrNoSpeech):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func messageFor(err error) string {
	if errors.Is(err, services.ErrNoSpeech) {
		return "No speech could be recognized."
	}
	return err.Error()
}

func respondError(c *fiber.Ctx, err error) error {
	code := statusFor(err)
	return c.Status(code).JSON(fiber.Map{
		"error": messageFor(err),
		"code":  code,
	})
}

// ErrorHandler renders errors that escape a handler in the same shape as respondError.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return respondError(c, err)
}
