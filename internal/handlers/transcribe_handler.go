package handlers

import (
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/interview-agent/internal/middleware"
	"alfredoptarigan/interview-agent/internal/models"
	"alfredoptarigan/interview-agent/internal/services"
)

type TranscribeHandler struct {
	transcriptionService services.TranscriptionService
	maxFileSize          int64
}

func NewTranscribeHandler(transcriptionService services.TranscriptionService, maxFileSize int64) *TranscribeHandler {
	return &TranscribeHandler{
		transcriptionService: transcriptionService,
		maxFileSize:          maxFileSize,
	}
}

// HandleTranscribe handles POST /transcribe
func (h *TranscribeHandler) HandleTranscribe(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return respondError(c, fiber.NewError(fiber.StatusBadRequest, "file is required"))
	}

	if file.Size > h.maxFileSize {
		return respondError(c, fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("Audio file too large. Max size: %d bytes", h.maxFileSize)))
	}

	src, err := file.Open()
	if err != nil {
		return respondError(c, fmt.Errorf("failed to open uploaded file: %w", err))
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return respondError(c, fmt.Errorf("failed to read uploaded file: %w", err))
	}

	text, err := h.transcriptionService.Transcribe(c.UserContext(), middleware.UserID(c), file.Filename, data)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.TranscriptionResponse{
		Message: "Transcription successful",
		Text:    text,
	})
}
