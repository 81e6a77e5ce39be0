package models

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// CategoryScore is the evaluation of one rubric category.
type CategoryScore struct {
	Score   int    `json:"score" bson:"score"`
	Summary string `json:"summary" bson:"summary"`
}

// Analysis maps rubric category names to their scores.
type Analysis map[string]CategoryScore

// Interview is the persisted snapshot of the caller's current interview.
type Interview struct {
	UserID         string                       `gorm:"type:text;primaryKey" json:"user_id"`
	JobDescription string                       `gorm:"type:text" json:"job_description"`
	CompanyDetails string                       `gorm:"type:text" json:"company_details"`
	ResumeText     string                       `gorm:"type:text" json:"resume_text"`
	Conversation   datatypes.JSONSlice[Message] `json:"conversation"`
	Analysis       datatypes.JSON               `json:"analysis,omitempty"`
	StartTime      time.Time                    `json:"start_time"`
	CreatedAt      time.Time                    `json:"created_at"`
	UpdatedAt      time.Time                    `json:"updated_at"`
}

func (Interview) TableName() string {
	return "interviews"
}

// DecodeAnalysis returns the stored analysis, or nil when evaluation has not
// completed yet.
func (i *Interview) DecodeAnalysis() (Analysis, error) {
	if len(i.Analysis) == 0 || string(i.Analysis) == "null" {
		return nil, nil
	}

	var analysis Analysis
	if err := json.Unmarshal(i.Analysis, &analysis); err != nil {
		return nil, fmt.Errorf("failed to decode analysis: %w", err)
	}
	return analysis, nil
}

// InterviewSnapshot is written by question generation. A nil StartTime keeps
// the stored cycle start.
type InterviewSnapshot struct {
	UserID         string
	JobDescription string
	CompanyDetails string
	ResumeText     string
	Conversation   []Message
	StartTime      *time.Time
}
