package models

import "time"

type ParsedResume struct {
	ID        string `json:"id"`
	Filename  string `json:"filename"`
	PageCount int    `json:"page_count"`
	Snippet   string `json:"snippet"`
}

type UploadResponse struct {
	Success    bool         `json:"success"`
	Message    string       `json:"message"`
	ParsedData ParsedResume `json:"parsed_data"`
}

type JobDetailsResponse struct {
	Message        string `json:"message"`
	JobDescription string `json:"job_description"`
	CompanyDetails string `json:"company_details"`
}

type QuestionResponse struct {
	Question    string `json:"question"`
	InterviewID string `json:"interview_id"`
}

type TranscriptionResponse struct {
	Message string `json:"message"`
	Text    string `json:"text"`
}

type InterviewResponse struct {
	InterviewID    string    `json:"interview_id"`
	JobDescription string    `json:"job_description"`
	CompanyDetails string    `json:"company_details"`
	Conversation   []Message `json:"conversation"`
	StartTime      time.Time `json:"start_time"`
	Analysis       Analysis  `json:"analysis,omitempty"`
}
