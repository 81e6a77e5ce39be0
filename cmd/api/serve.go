package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"alfredoptarigan/interview-agent/internal/config"
	"alfredoptarigan/interview-agent/internal/handlers"
	"alfredoptarigan/interview-agent/internal/repositories"
	"alfredoptarigan/interview-agent/internal/services"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		return serve(cmd.Context(), cfg, log)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	// serve is the default command
	rootCmd.RunE = serveCmd.RunE
}

type repositorySet struct {
	sessions   repositories.SessionRepository
	interviews repositories.InterviewRepository
	resumes    repositories.ResumeRepository
	close      func()
}

func openRepositories(ctx context.Context, cfg *config.Config, log *zap.Logger) (*repositorySet, error) {
	if cfg.Database.Driver == config.DriverMongo {
		client, db, err := config.InitMongo(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		if err := repositories.EnsureMongoIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}

		return &repositorySet{
			sessions:   repositories.NewMongoSessionRepository(db),
			interviews: repositories.NewMongoInterviewRepository(db),
			resumes:    repositories.NewMongoResumeRepository(db),
			close: func() {
				if err := client.Disconnect(context.Background()); err != nil {
					log.Warn("⚠️ Failed to disconnect MongoDB", zap.Error(err))
				}
			},
		}, nil
	}

	db, err := config.InitDatabase(cfg, log)
	if err != nil {
		return nil, err
	}

	return &repositorySet{
		sessions:   repositories.NewSessionRepository(db),
		interviews: repositories.NewInterviewRepository(db),
		resumes:    repositories.NewResumeRepository(db),
		close: func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		},
	}, nil
}

func serve(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	initCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	repos, err := openRepositories(initCtx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer repos.close()
	log.Info("✅ Repositories initialized successfully")

	storageService := services.NewStorageService(cfg.Storage.TempPath)
	if err := storageService.EnsureTempDir(); err != nil {
		return err
	}

	geminiClient, err := services.NewGeminiClient(initCtx, cfg.LLM.GeminiAPIKey)
	if err != nil {
		return fmt.Errorf("failed to initialize Gemini AI: %w", err)
	}

	var llm services.LLMService
	switch cfg.LLM.Provider {
	case config.ProviderGroq:
		llm = services.NewGroqService(cfg.LLM.GroqBaseURL, cfg.LLM.GroqAPIKey, cfg.LLM.GroqModel, cfg.LLM.Temperature, log)
	default:
		llm = services.NewGeminiService(geminiClient, cfg.LLM.GeminiModel, cfg.LLM.Temperature, log)
	}
	log.Info("✅ LLM initialized successfully",
		zap.String("provider", llm.Provider()),
		zap.String("model", llm.Model()),
	)

	sessions := services.NewSessionService(repos.sessions, log)
	conversation := services.NewConversationService(repos.sessions)
	recognizer := services.NewGeminiSpeechRecognizer(geminiClient, cfg.Speech.Model, cfg.Speech.Language, log)

	svc := handlers.Services{
		Sessions:   sessions,
		Resumes:    services.NewResumeService(sessions, repos.sessions, repos.resumes, services.NewPDFParserService(), log),
		Interviews: services.NewInterviewService(sessions, conversation, repos.interviews, llm, log),
		Transcription: services.NewTranscriptionService(
			sessions,
			conversation,
			storageService,
			services.NewFFmpegConverter(cfg.Speech.FFmpegPath),
			recognizer,
			log,
		),
		Evaluator: services.NewEvaluatorService(repos.interviews, llm, log),
	}
	log.Info("✅ Services initialized successfully")

	app := handlers.NewRouter(handlers.RouterConfig{
		AllowOrigins: cfg.Origins(),
		UserIDHeader: cfg.Server.UserIDHeader,
		MaxFileSize:  cfg.Storage.MaxFileSize,
		AccessLog:    true,
	}, svc, log)

	return listen(ctx, app, cfg.Server.Port, log)
}

// listen runs app until SIGINT, SIGTERM or ctx cancellation.
func listen(ctx context.Context, app *fiber.App, port string, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	addr := fmt.Sprintf(":%s", port)

	go func() {
		log.Info("🚀 Server starting", zap.String("addr", addr))
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("🛑 Shutting down server...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	return <-errCh
}
