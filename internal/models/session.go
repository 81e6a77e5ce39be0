package models

import (
	"time"

	"gorm.io/datatypes"
)

// Session holds the in-progress interview inputs of one caller.
type Session struct {
	UserID         string                       `gorm:"type:text;primaryKey" json:"user_id"`
	ResumeText     string                       `gorm:"type:text" json:"resume_text"`
	JobDescription string                       `gorm:"type:text" json:"job_description"`
	CompanyDetails string                       `gorm:"type:text" json:"company_details"`
	Messages       datatypes.JSONSlice[Message] `json:"messages"`
	CreatedAt      time.Time                    `json:"created_at"`
	UpdatedAt      time.Time                    `json:"updated_at"`
}

func (Session) TableName() string {
	return "user_sessions"
}

// SessionFields names the fields written by a session upsert. Nil fields are
// left untouched.
type SessionFields struct {
	ResumeText     *string
	JobDescription *string
	CompanyDetails *string
	Messages       []Message
	SetMessages    bool
}

// WithMessages returns a copy of f that also writes the given conversation.
func (f SessionFields) WithMessages(messages []Message) SessionFields {
	f.Messages = messages
	f.SetMessages = true
	return f
}

// Empty reports whether no field is named.
func (f SessionFields) Empty() bool {
	return f.ResumeText == nil && f.JobDescription == nil && f.CompanyDetails == nil && !f.SetMessages
}
