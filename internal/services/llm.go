package services

import (
	"context"

	"alfredoptarigan/interview-agent/internal/models"
)

// DefaultSystemPrompt is sent when a caller has no more specific system context.
const DefaultSystemPrompt = "You are a helpful assistant."

// LLMService completes a conversation. history is sent before prompt; an empty
// prompt sends history only.
type LLMService interface {
	Complete(ctx context.Context, systemPrompt string, history []models.Message, prompt string) (string, error)
	Provider() string
	Model() string
}
