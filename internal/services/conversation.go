package services

import (
	"context"
	"errors"
	"fmt"

	"alfredoptarigan/interview-agent/internal/models"
	"alfredoptarigan/interview-agent/internal/repositories"
)

// ConversationService is the append-only turn log stored on the session.
// Each call is a read-modify-write of the whole sequence.
type ConversationService interface {
	Messages(ctx context.Context, userID string) ([]models.Message, error)
	AppendTurn(ctx context.Context, userID string, role models.Role, content string) ([]models.Message, error)
	Reset(ctx context.Context, userID string) error
}

type conversationService struct {
	sessionRepo repositories.SessionRepository
}

func NewConversationService(sessionRepo repositories.SessionRepository) ConversationService {
	return &conversationService{sessionRepo: sessionRepo}
}

func (c *conversationService) Messages(ctx context.Context, userID string) ([]models.Message, error) {
	session, err := c.sessionRepo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return []models.Message{}, nil
		}
		return nil, err
	}

	messages := make([]models.Message, len(session.Messages))
	copy(messages, session.Messages)
	return messages, nil
}

// AppendTurn appends one turn and returns the full conversation as written.
func (c *conversationService) AppendTurn(ctx context.Context, userID string, role models.Role, content string) ([]models.Message, error) {
	if role != models.RoleUser && role != models.RoleAssistant {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, role)
	}

	messages, err := c.Messages(ctx, userID)
	if err != nil {
		return nil, err
	}

	messages = append(messages, models.Message{Role: role, Content: content})

	if err := c.sessionRepo.Upsert(ctx, userID, models.SessionFields{}.WithMessages(messages)); err != nil {
		return nil, fmt.Errorf("failed to append turn: %w", err)
	}

	return messages, nil
}

func (c *conversationService) Reset(ctx context.Context, userID string) error {
	if err := c.sessionRepo.Upsert(ctx, userID, models.SessionFields{}.WithMessages([]models.Message{})); err != nil {
		return fmt.Errorf("failed to reset conversation: %w", err)
	}
	return nil
}
