package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"alfredoptarigan/interview-agent/internal/logger"
	"alfredoptarigan/interview-agent/internal/models"
	"alfredoptarigan/interview-agent/internal/repositories"
)

type SessionService interface {
	GetOrCreate(ctx context.Context, userID string) (*models.Session, error)
	UpdateJobDetails(ctx context.Context, userID, jobDescription, companyDetails string) error
}

type sessionService struct {
	sessionRepo repositories.SessionRepository
	log         *zap.Logger
}

func NewSessionService(sessionRepo repositories.SessionRepository, log *zap.Logger) SessionService {
	return &sessionService{
		sessionRepo: sessionRepo,
		log:         logger.OrNop(log),
	}
}

// GetOrCreate returns the caller's session, creating an empty one on first access.
func (s *sessionService) GetOrCreate(ctx context.Context, userID string) (*models.Session, error) {
	session, err := s.sessionRepo.FindByUserID(ctx, userID)
	if err == nil {
		return session, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	// a concurrent first request may have created it already; keep what it wrote
	if err := s.sessionRepo.Create(ctx, userID); err != nil {
		return nil, err
	}

	logger.ForUser(s.log, userID).Info("🆕 Session created")

	return s.sessionRepo.FindByUserID(ctx, userID)
}

func (s *sessionService) UpdateJobDetails(ctx context.Context, userID, jobDescription, companyDetails string) error {
	if jobDescription == "" || companyDetails == "" {
		return fmt.Errorf("%w: job_description and company_details are required", ErrInvalidInput)
	}

	if _, err := s.GetOrCreate(ctx, userID); err != nil {
		return err
	}

	if err := s.sessionRepo.Upsert(ctx, userID, models.SessionFields{
		JobDescription: &jobDescription,
		CompanyDetails: &companyDetails,
	}); err != nil {
		return fmt.Errorf("error processing job details: %w", err)
	}

	logger.ForUser(s.log, userID).Info("💼 Job details updated",
		zap.Int("job_description_chars", len(jobDescription)),
		zap.Int("company_details_chars", len(companyDetails)),
	)

	return nil
}
