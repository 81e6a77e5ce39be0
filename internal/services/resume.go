package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/interview-agent/internal/logger"
	"alfredoptarigan/interview-agent/internal/models"
	"alfredoptarigan/interview-agent/internal/repositories"
)

const snippetLength = 500

type ResumeService interface {
	Ingest(ctx context.Context, userID, filename string, data []byte) (*models.ParsedResume, error)
}

type resumeService struct {
	sessions    SessionService
	sessionRepo repositories.SessionRepository
	resumeRepo  repositories.ResumeRepository
	pdfParser   PDFParserService
	log         *zap.Logger
	now         func() time.Time
}

func NewResumeService(
	sessions SessionService,
	sessionRepo repositories.SessionRepository,
	resumeRepo repositories.ResumeRepository,
	pdfParser PDFParserService,
	log *zap.Logger,
) ResumeService {
	return &resumeService{
		sessions:    sessions,
		sessionRepo: sessionRepo,
		resumeRepo:  resumeRepo,
		pdfParser:   pdfParser,
		log:         logger.OrNop(log),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Ingest extracts the resume text, archives the raw text and stores the
// cleaned text on the caller's session.
func (r *resumeService) Ingest(ctx context.Context, userID, filename string, data []byte) (*models.ParsedResume, error) {
	log := logger.ForUser(r.log, userID).With(zap.String("filename", filename))

	if _, err := r.sessions.GetOrCreate(ctx, userID); err != nil {
		return nil, err
	}

	log.Info("📄 Parsing resume...")
	pages, err := r.pdfParser.ExtractPages(data)
	if err != nil {
		log.Warn("❌ Resume extraction failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrExtraction, err)
	}

	fullText := JoinPages(pages)

	resume := &models.Resume{
		ID:          uuid.New(),
		UserID:      userID,
		Filename:    filename,
		TextContent: fullText,
		PageCount:   len(pages),
		UploadTime:  r.now(),
	}
	if err := r.resumeRepo.Create(ctx, resume); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExtraction, err)
	}

	cleaned := CleanResumeText(fullText)
	if err := r.sessionRepo.Upsert(ctx, userID, models.SessionFields{ResumeText: &cleaned}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExtraction, err)
	}

	log.Info("✅ Resume processed", zap.Int("pages", len(pages)), zap.Int("chars", len(cleaned)))

	return &models.ParsedResume{
		ID:        resume.ID.String(),
		Filename:  filename,
		PageCount: len(pages),
		Snippet:   Snippet(cleaned, snippetLength),
	}, nil
}
