package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"alfredoptarigan/interview-agent/internal/models"
)

type SessionRepository interface {
	FindByUserID(ctx context.Context, userID string) (*models.Session, error)
	// Create inserts an empty session unless one already exists.
	Create(ctx context.Context, userID string) error
	Upsert(ctx context.Context, userID string, fields models.SessionFields) error
}

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

// FindByUserID implements SessionRepository.
func (r *sessionRepository) FindByUserID(ctx context.Context, userID string) (*models.Session, error) {
	var session models.Session
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("session %s: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	return &session, nil
}

func (r *sessionRepository) Create(ctx context.Context, userID string) error {
	row := models.Session{
		UserID:   userID,
		Messages: datatypes.JSONSlice[models.Message]{},
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	return nil
}

// Upsert implements SessionRepository. Only the named fields are overwritten
// when the session already exists.
func (r *sessionRepository) Upsert(ctx context.Context, userID string, fields models.SessionFields) error {
	row := models.Session{
		UserID:   userID,
		Messages: datatypes.JSONSlice[models.Message]{},
	}
	columns := []string{"updated_at"}

	if fields.ResumeText != nil {
		row.ResumeText = *fields.ResumeText
		columns = append(columns, "resume_text")
	}
	if fields.JobDescription != nil {
		row.JobDescription = *fields.JobDescription
		columns = append(columns, "job_description")
	}
	if fields.CompanyDetails != nil {
		row.CompanyDetails = *fields.CompanyDetails
		columns = append(columns, "company_details")
	}
	if fields.SetMessages {
		if fields.Messages != nil {
			row.Messages = fields.Messages
		}
		columns = append(columns, "messages")
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns(columns),
		}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to upsert session: %w", err)
	}

	return nil
}
