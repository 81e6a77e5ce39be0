package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"alfredoptarigan/interview-agent/internal/models"
)

type ResumeRepository interface {
	Create(ctx context.Context, resume *models.Resume) error
}

type resumeRepository struct {
	db *gorm.DB
}

func NewResumeRepository(db *gorm.DB) ResumeRepository {
	return &resumeRepository{db: db}
}

// Create implements ResumeRepository.
func (r *resumeRepository) Create(ctx context.Context, resume *models.Resume) error {
	if err := r.db.WithContext(ctx).Create(resume).Error; err != nil {
		return fmt.Errorf("failed to create resume: %w", err)
	}

	return nil
}
