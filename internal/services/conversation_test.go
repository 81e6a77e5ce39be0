package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"alfredoptarigan/interview-agent/internal/models"
)

func TestAppendTurnPreservesOrder(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos(t)
	conv := NewConversationService(repos.sessions)

	for i := 0; i < 6; i++ {
		role := models.RoleUser
		if i%2 == 0 {
			role = models.RoleAssistant
		}
		if _, err := conv.AppendTurn(ctx, "u1", role, fmt.Sprintf("turn-%d", i)); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	messages, err := conv.Messages(ctx, "u1")
	if err != nil {
		t.Fatalf("messages: %v", err)
	}
	if len(messages) != 6 {
		t.Fatalf("expected 6 turns, got %d", len(messages))
	}
	for i, msg := range messages {
		if msg.Content != fmt.Sprintf("turn-%d", i) {
			t.Fatalf("turn %d out of order: %q", i, msg.Content)
		}
	}
}

func TestResetClearsOnlyMessages(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos(t)
	seedSession(t, repos.sessions, "u1")
	conv := NewConversationService(repos.sessions)

	if _, err := conv.AppendTurn(ctx, "u1", models.RoleAssistant, "hello"); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := conv.Reset(ctx, "u1"); err != nil {
		t.Fatalf("reset: %v", err)
	}

	session, err := repos.sessions.FindByUserID(ctx, "u1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(session.Messages) != 0 {
		t.Fatalf("expected empty conversation, got %d turns", len(session.Messages))
	}
	if session.ResumeText == "" || session.JobDescription == "" {
		t.Fatalf("reset cleared other fields: %+v", session)
	}
}

func TestAppendTurnRejectsUnknownRole(t *testing.T) {
	conv := NewConversationService(newTestRepos(t).sessions)

	_, err := conv.AppendTurn(context.Background(), "u1", models.Role("system"), "x")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
