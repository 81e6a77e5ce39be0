package models

import (
	"time"

	"github.com/google/uuid"
)

// Resume is the archival record of a raw resume upload. It is never updated.
type Resume struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID      string    `gorm:"type:text;index" json:"user_id"`
	Filename    string    `gorm:"type:text" json:"filename"`
	TextContent string    `gorm:"type:text" json:"text_content"`
	PageCount   int       `json:"page_count"`
	UploadTime  time.Time `json:"upload_time"`
}

func (Resume) TableName() string {
	return "resumes"
}
