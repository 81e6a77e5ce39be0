package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/interview-agent/internal/middleware"
	"alfredoptarigan/interview-agent/internal/models"
	"alfredoptarigan/interview-agent/internal/services"
)

type InterviewHandler struct {
	interviewService services.InterviewService
}

func NewInterviewHandler(interviewService services.InterviewService) *InterviewHandler {
	return &InterviewHandler{interviewService: interviewService}
}

// HandleGetInterview handles GET /interview
func (h *InterviewHandler) HandleGetInterview(c *fiber.Ctx) error {
	interview, err := h.interviewService.GetInterview(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}

	analysis, err := interview.DecodeAnalysis()
	if err != nil {
		return respondError(c, err)
	}

	conversation := []models.Message(interview.Conversation)
	if conversation == nil {
		conversation = []models.Message{}
	}

	return c.JSON(models.InterviewResponse{
		InterviewID:    interview.UserID,
		JobDescription: interview.JobDescription,
		CompanyDetails: interview.CompanyDetails,
		Conversation:   conversation,
		StartTime:      interview.StartTime,
		Analysis:       analysis,
	})
}
