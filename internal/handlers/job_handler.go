package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/interview-agent/internal/middleware"
	"alfredoptarigan/interview-agent/internal/models"
	"alfredoptarigan/interview-agent/internal/services"
)

const previewWords = 10

type JobHandler struct {
	sessionService services.SessionService
}

func NewJobHandler(sessionService services.SessionService) *JobHandler {
	return &JobHandler{sessionService: sessionService}
}

// HandleUpdateDetails handles POST /job/update_details
func (h *JobHandler) HandleUpdateDetails(c *fiber.Ctx) error {
	jobDescription := c.FormValue("job_description")
	companyDetails := c.FormValue("company_details")

	if err := h.sessionService.UpdateJobDetails(c.UserContext(), middleware.UserID(c), jobDescription, companyDetails); err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.JobDetailsResponse{
		Message:        "Job details uploaded successfully",
		JobDescription: services.PreviewWords(jobDescription, previewWords),
		CompanyDetails: services.PreviewWords(companyDetails, previewWords),
	})
}
