package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/interview-agent/internal/middleware"
	"alfredoptarigan/interview-agent/internal/models"
	"alfredoptarigan/interview-agent/internal/services"
)

type QuestionHandler struct {
	interviewService services.InterviewService
}

func NewQuestionHandler(interviewService services.InterviewService) *QuestionHandler {
	return &QuestionHandler{interviewService: interviewService}
}

// HandleGenerate handles POST /question/generate. A request without the
// user_input query parameter starts a new interview.
func (h *QuestionHandler) HandleGenerate(c *fiber.Ctx) error {
	var userInput *string
	if c.Context().QueryArgs().Has("user_input") {
		value := c.Query("user_input")
		userInput = &value
	}

	result, err := h.interviewService.GenerateQuestion(c.UserContext(), middleware.UserID(c), userInput)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.QuestionResponse{
		Question:    result.Question,
		InterviewID: result.InterviewID,
	})
}
