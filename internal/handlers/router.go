package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"alfredoptarigan/interview-agent/internal/logger"
	"alfredoptarigan/interview-agent/internal/middleware"
	"alfredoptarigan/interview-agent/internal/services"
)

// multipart framing on top of the largest accepted upload
const bodyLimitSlack = 1 << 20

type RouterConfig struct {
	AllowOrigins []string
	UserIDHeader string
	MaxFileSize  int64
	AccessLog    bool
}

type Services struct {
	Sessions      services.SessionService
	Resumes       services.ResumeService
	Interviews    services.InterviewService
	Transcription services.TranscriptionService
	Evaluator     services.EvaluatorService
}

// NewRouter builds the Fiber application with every route registered.
func NewRouter(cfg RouterConfig, svc Services, log *zap.Logger) *fiber.App {
	log = logger.OrNop(log)

	app := fiber.New(fiber.Config{
		AppName:               "Interview Agent API",
		Immutable:             true,
		ReadTimeout:           60 * time.Second,
		WriteTimeout:          120 * time.Second,
		BodyLimit:             int(cfg.MaxFileSize) + bodyLimitSlack,
		ErrorHandler:          ErrorHandler,
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	if cfg.AccessLog {
		app.Use(fiberlogger.New(fiberlogger.Config{
			Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
			TimeFormat: "2006-01-02 15:04:05",
		}))
	}

	origins := strings.Join(cfg.AllowOrigins, ",")
	if origins == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, " + cfg.UserIDHeader,
		ExposeHeaders:    cfg.UserIDHeader,
		AllowCredentials: origins != "*",
	}))

	app.Use(middleware.Identity(cfg.UserIDHeader, log))

	resumeHandler := NewResumeHandler(svc.Resumes, cfg.MaxFileSize)
	jobHandler := NewJobHandler(svc.Sessions)
	questionHandler := NewQuestionHandler(svc.Interviews)
	transcribeHandler := NewTranscribeHandler(svc.Transcription, cfg.MaxFileSize)
	evaluateHandler := NewEvaluationHandler(svc.Evaluator)
	interviewHandler := NewInterviewHandler(svc.Interviews)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "Interview API is running"})
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	app.Post("/resume/upload", resumeHandler.HandleUpload)
	app.Post("/job/update_details", jobHandler.HandleUpdateDetails)
	app.Post("/question/generate", questionHandler.HandleGenerate)
	app.Post("/transcribe", transcribeHandler.HandleTranscribe)
	app.Post("/evaluate", evaluateHandler.HandleEvaluate)
	app.Get("/interview", interviewHandler.HandleGetInterview)

	return app
}
