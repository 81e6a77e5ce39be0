package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/interview-agent/internal/middleware"
	"alfredoptarigan/interview-agent/internal/services"
)

type EvaluationHandler struct {
	evaluatorService services.EvaluatorService
}

func NewEvaluationHandler(evaluatorService services.EvaluatorService) *EvaluationHandler {
	return &EvaluationHandler{evaluatorService: evaluatorService}
}

// HandleEvaluate handles POST /evaluate
func (h *EvaluationHandler) HandleEvaluate(c *fiber.Ctx) error {
	analysis, err := h.evaluatorService.Evaluate(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(analysis)
}
