package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"alfredoptarigan/interview-agent/internal/models"
)

type InterviewRepository interface {
	FindByUserID(ctx context.Context, userID string) (*models.Interview, error)
	Upsert(ctx context.Context, snapshot *models.InterviewSnapshot) error
	UpdateAnalysis(ctx context.Context, userID string, analysis models.Analysis) error
}

type interviewRepository struct {
	db *gorm.DB
}

func NewInterviewRepository(db *gorm.DB) InterviewRepository {
	return &interviewRepository{db: db}
}

func (r *interviewRepository) FindByUserID(ctx context.Context, userID string) (*models.Interview, error) {
	var interview models.Interview
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&interview).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("interview %s: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find interview: %w", err)
	}
	return &interview, nil
}

func (r *interviewRepository) Upsert(ctx context.Context, snapshot *models.InterviewSnapshot) error {
	conversation := datatypes.JSONSlice[models.Message]{}
	if snapshot.Conversation != nil {
		conversation = snapshot.Conversation
	}

	row := models.Interview{
		UserID:         snapshot.UserID,
		JobDescription: snapshot.JobDescription,
		CompanyDetails: snapshot.CompanyDetails,
		ResumeText:     snapshot.ResumeText,
		Conversation:   conversation,
		StartTime:      time.Now().UTC(),
	}
	columns := []string{"job_description", "company_details", "resume_text", "conversation", "updated_at"}

	// a new cycle drops the previous cycle's scores
	if snapshot.StartTime != nil {
		row.StartTime = *snapshot.StartTime
		columns = append(columns, "start_time", "analysis")
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns(columns),
		}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to upsert interview: %w", err)
	}

	return nil
}

func (r *interviewRepository) UpdateAnalysis(ctx context.Context, userID string, analysis models.Analysis) error {
	payload, err := json.Marshal(analysis)
	if err != nil {
		return fmt.Errorf("failed to encode analysis: %w", err)
	}

	result := r.db.WithContext(ctx).Model(&models.Interview{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"analysis":   datatypes.JSON(payload),
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update analysis: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("interview %s: %w", userID, ErrNotFound)
	}

	return nil
}
