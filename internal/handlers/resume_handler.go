package handlers

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/interview-agent/internal/middleware"
	"alfredoptarigan/interview-agent/internal/models"
	"alfredoptarigan/interview-agent/internal/services"
)

type ResumeHandler struct {
	resumeService services.ResumeService
	maxFileSize   int64
}

func NewResumeHandler(resumeService services.ResumeService, maxFileSize int64) *ResumeHandler {
	return &ResumeHandler{
		resumeService: resumeService,
		maxFileSize:   maxFileSize,
	}
}

// HandleUpload handles POST /resume/upload
func (h *ResumeHandler) HandleUpload(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return respondError(c, fiber.NewError(fiber.StatusBadRequest, "file is required"))
	}

	if file.Size > h.maxFileSize {
		return respondError(c, fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("Resume file too large. Max size: %d bytes", h.maxFileSize)))
	}

	if ext := strings.ToLower(filepath.Ext(file.Filename)); ext != ".pdf" {
		return respondError(c, fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("invalid file extension: %q, expected .pdf", ext)))
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

	parsed, err := h.resumeService.Ingest(c.UserContext(), middleware.UserID(c), file.Filename, data)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.UploadResponse{
		Success:    true,
		Message:    "Resume uploaded and processed successfully.",
		ParsedData: *parsed,
	})
}
